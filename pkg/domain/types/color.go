package types

// Color represents a difficulty tier of an AtCoder problem. The zero value
// ColorBlack is reserved for problems without an estimated difficulty and is
// never produced by ColorForDifficulty.
type Color int

const (
	ColorBlack Color = iota
	ColorGray
	ColorBrown
	ColorGreen
	ColorCyan
	ColorBlue
	ColorYellow
	ColorOrange
	ColorRed
)

var colorLabels = map[Color]string{
	ColorBlack:  "不明",
	ColorGray:   "灰",
	ColorBrown:  "茶",
	ColorGreen:  "緑",
	ColorCyan:   "水",
	ColorBlue:   "青",
	ColorYellow: "黄",
	ColorOrange: "橙",
	ColorRed:    "赤",
}

var colorAccents = map[Color]uint32{
	ColorBlack:  0x000000,
	ColorGray:   0x808080,
	ColorBrown:  0x804000,
	ColorGreen:  0x008000,
	ColorCyan:   0x00c0c0,
	ColorBlue:   0x0000ff,
	ColorYellow: 0xc0c000,
	ColorOrange: 0xff8000,
	ColorRed:    0xff0000,
}

// Label returns the display label of the color.
func (c Color) Label() string {
	if l, ok := colorLabels[c]; ok {
		return l
	}
	return colorLabels[ColorBlack]
}

// Accent returns the RGB accent value used for notification attachments.
func (c Color) Accent() uint32 {
	if a, ok := colorAccents[c]; ok {
		return a
	}
	return colorAccents[ColorBlack]
}

// MaxColor returns the higher of two colors in severity order.
func MaxColor(a, b Color) Color {
	if a > b {
		return a
	}
	return b
}
