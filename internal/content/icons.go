package content

// Icon is a closed set of display icons selectable by content rows.
type Icon string

const (
	IconCamera Icon = "camera"
	IconClock  Icon = "clock"
	IconMusic  Icon = "music"
)

var iconsByName = map[string]Icon{
	"Camera": IconCamera,
	"Clock":  IconClock,
	"Music":  IconMusic,
}

var iconGlyphs = map[Icon]string{
	IconCamera: "📷",
	IconClock:  "🕐",
	IconMusic:  "🎵",
}

// IconFor resolves an icon name from a content row through the static
// table. Unknown names fall back to the camera icon.
func IconFor(name string) Icon {
	if icon, ok := iconsByName[name]; ok {
		return icon
	}
	return IconCamera
}

// Glyph returns the character rendered for the icon.
func (i Icon) Glyph() string {
	if g, ok := iconGlyphs[i]; ok {
		return g
	}
	return iconGlyphs[IconCamera]
}
