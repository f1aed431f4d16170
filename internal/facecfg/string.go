package facecfg

import (
	"fmt"
	"strings"

	"github.com/openwearables/quartz/internal/fancy"
)

// String renders the face definition as a styled tree for the describe
// command.
func (c *Config) String() string {
	root := fancy.FaceTree(c.Name)

	engine := fancy.NewComponentTree(fancy.SectionStyle.Render("Engine"))
	engine.AddChild(fancy.ValueStyle.Render("interactive interval: " + c.InteractiveInterval.String()))
	if len(c.ComplicationTypes) > 0 {
		engine.AddChild(fancy.ValueStyle.Render("complication types: " + strings.Join(c.ComplicationTypes, ", ")))
	}
	root.AddChild(engine.Tree())

	styles := fancy.NewComponentTree(fancy.SectionStyle.Render("Style"))
	for _, opt := range c.Style {
		node := fancy.NewComponentTree(fancy.OptionStyle.Render(opt.Key))
		node.AddChild(fancy.ValueStyle.Render("values: " + strings.Join(opt.Values, ", ")))
		node.AddChild(fancy.ValueStyle.Render("default: " + opt.Default))
		styles.AddChild(node.Tree())
	}
	root.AddChild(styles.Tree())

	slots := fancy.NewComponentTree(fancy.SectionStyle.Render("Slots"))
	for _, slot := range c.Slots {
		node := fancy.NewComponentTree(fancy.SlotStyle.Render(fmt.Sprintf("slot %d", slot.ID)))
		node.AddChild(fancy.ValueStyle.Render(fmt.Sprintf("bounds: (%g,%g)-(%g,%g)",
			slot.Bounds[0], slot.Bounds[1], slot.Bounds[2], slot.Bounds[3])))
		node.AddChild(fancy.ValueStyle.Render("types: " + strings.Join(slot.Types, ", ")))
		slots.AddChild(node.Tree())
	}
	root.AddChild(slots.Tree())

	return root.Tree().String()
}
