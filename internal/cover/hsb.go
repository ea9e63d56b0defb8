package cover

import "math"

// HSBToRGB converts hue (0-255), saturation (0-100) and brightness (0-255)
// to RGB. Saturation is divided by 256, not 100, which keeps accent colors
// in the pastel range behind dark title text.
func HSBToRGB(h, s, v int) RGB {
	sat := float64(s) / 256.0
	if sat == 0 {
		return RGB{clampByte(v), clampByte(v), clampByte(v)}
	}
	hue := float64(h) / (256.0 / 6.0)
	i := math.Floor(hue)
	f := hue - i

	val := float64(v)
	p := int(val * (1.0 - sat))
	q := int(val * (1.0 - sat*f))
	t := int(val * (1.0 - sat*(1.0-f)))

	switch int(i) % 6 {
	case 0:
		return rgb(v, t, p)
	case 1:
		return rgb(q, v, p)
	case 2:
		return rgb(p, v, t)
	case 3:
		return rgb(p, q, v)
	case 4:
		return rgb(t, p, v)
	default:
		return rgb(v, p, q)
	}
}

func rgb(r, g, b int) RGB {
	return RGB{clampByte(r), clampByte(g), clampByte(b)}
}

func clampByte(n int) uint8 {
	switch {
	case n < 0:
		return 0
	case n > 255:
		return 255
	}
	return uint8(n)
}
