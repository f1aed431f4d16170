package style

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	schema, err := NewSchema(testOptions())
	require.NoError(t, err)
	return NewRepository(schema)
}

func TestRepositoryDefaults(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t)
	v, ok := repo.Get("colorScheme")
	require.True(t, ok)
	assert.Equal(t, "light", v)
}

func TestRepositorySetOption(t *testing.T) {
	t.Parallel()

	t.Run("value in domain succeeds", func(t *testing.T) {
		repo := newTestRepository(t)
		require.NoError(t, repo.SetOption("colorScheme", "dark"))

		v, _ := repo.Get("colorScheme")
		assert.Equal(t, "dark", v)
	})

	t.Run("value outside domain rejected, selection unchanged", func(t *testing.T) {
		repo := newTestRepository(t)
		err := repo.SetOption("colorScheme", "neon")
		require.ErrorIs(t, err, ErrInvalidOptionValue)

		v, _ := repo.Get("colorScheme")
		assert.Equal(t, "light", v)
	})

	t.Run("unknown key rejected", func(t *testing.T) {
		repo := newTestRepository(t)
		err := repo.SetOption("bezel", "steel")
		assert.ErrorIs(t, err, ErrUnknownOption)
	})
}

func TestRepositoryObservers(t *testing.T) {
	t.Parallel()

	t.Run("notified in subscription order before return", func(t *testing.T) {
		repo := newTestRepository(t)

		var order []string
		repo.Subscribe(ObserverFunc(func(key, value string) {
			order = append(order, "first:"+key+"="+value)
		}))
		repo.Subscribe(ObserverFunc(func(key, value string) {
			order = append(order, "second:"+key+"="+value)
		}))

		require.NoError(t, repo.SetOption("hands", "modern"))
		assert.Equal(t, []string{
			"first:hands=modern",
			"second:hands=modern",
		}, order)
	})

	t.Run("observer sees committed state", func(t *testing.T) {
		repo := newTestRepository(t)

		var seen string
		repo.Subscribe(ObserverFunc(func(key, value string) {
			seen, _ = repo.Get(key)
		}))

		require.NoError(t, repo.SetOption("colorScheme", "dark"))
		assert.Equal(t, "dark", seen)
	})

	t.Run("rejected change notifies nobody", func(t *testing.T) {
		repo := newTestRepository(t)

		calls := 0
		repo.Subscribe(ObserverFunc(func(string, string) { calls++ }))

		require.Error(t, repo.SetOption("colorScheme", "neon"))
		assert.Equal(t, 0, calls)
	})

	t.Run("re-selecting the current value is a silent no-op", func(t *testing.T) {
		repo := newTestRepository(t)

		calls := 0
		repo.Subscribe(ObserverFunc(func(string, string) { calls++ }))

		require.NoError(t, repo.SetOption("colorScheme", "light"))
		assert.Equal(t, 0, calls)
	})
}

func TestRepositorySelectedIsCopy(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t)
	sel := repo.Selected()
	sel["colorScheme"] = "dark"

	v, _ := repo.Get("colorScheme")
	assert.Equal(t, "light", v)
}
