package castle

// RGB is an 8-bit per channel colour.
type RGB struct {
	R, G, B uint8
}

// Hex builds a colour from a 0xRRGGBB literal.
func Hex(v uint32) RGB {
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}
}

// Floats returns the channels normalised to [0,1].
func (c RGB) Floats() (float32, float32, float32) {
	return float32(c.R) / 255.0, float32(c.G) / 255.0, float32(c.B) / 255.0
}

// RGBA is a colour with straight alpha in [0,1], used by screen overlays.
type RGBA struct {
	RGB
	A float64
}

var Palette = struct {
	Black       RGB
	BridgeSpan  RGB
	BridgeRail  RGB
	HouseBody   RGB
	HouseRoof   RGB
	HouseDoor   RGB
	HouseWindow RGB
	Chimney     RGB
}{
	Black:       Hex(0x000000),
	BridgeSpan:  Hex(0x555555),
	BridgeRail:  Hex(0x444444),
	HouseBody:   Hex(0xff4500),
	HouseRoof:   Hex(0x228b22),
	HouseDoor:   Hex(0x8b4513),
	HouseWindow: Hex(0x87ceeb),
	Chimney:     Hex(0x808080),
}
