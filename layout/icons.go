package layout

import (
	"fmt"
	"strconv"
)

// Icon names accepted in block configs.
const (
	IconHeart    = "heart"
	IconCar      = "car"
	IconDrink    = "drink"
	IconShield   = "shield"
	IconLocation = "location"
	IconTraffic  = "traffic"
)

var icons = map[string]string{
	IconHeart:    `<path d="M19 14c1.49-1.46 3-3.21 3-5.5A5.5 5.5 0 0 0 16.5 3c-1.76 0-3 .5-4.5 2-1.5-1.5-2.74-2-4.5-2A5.5 5.5 0 0 0 2 8.5c0 2.3 1.5 4.05 3 5.5l7 7Z"/>`,
	IconCar:      `<path d="M19 17h2c.6 0 1-.4 1-1v-3c0-.9-.7-1.7-1.5-1.9C18.7 10.6 16 10 16 10s-1.3-1.4-2.2-2.3c-.5-.4-1.1-.7-1.8-.7H5c-.6 0-1.1.4-1.4.9l-1.4 2.9A3.7 3.7 0 0 0 2 12v4c0 .6.4 1 1 1h2"/><circle cx="7" cy="17" r="2"/><path d="M9 17h6"/><circle cx="17" cy="17" r="2"/>`,
	IconDrink:    `<path d="M15.2 3a2 2 0 0 1 1.6.8l4.4 6a2 2 0 0 1 0 2.4l-4.4 6a2 2 0 0 1-1.6.8H8.8a2 2 0 0 1-1.6-.8l-4.4-6a2 2 0 0 1 0-2.4l4.4-6a2 2 0 0 1 1.6-.8z"/><path d="m8 3 4 8 4-8"/><path d="M12 11v10"/>`,
	IconShield:   `<path d="M12 22s8-4 8-10V5l-8-3-8 3v7c0 6 8 10 8 10z"/>`,
	IconLocation: `<path d="M20 10c0 6-8 12-8 12s-8-6-8-12a8 8 0 0 1 16 0Z"/><circle cx="12" cy="10" r="3"/>`,
	IconTraffic:  `<rect x="5" y="2" width="14" height="20" rx="2" ry="2"/><circle cx="12" cy="7" r="2"/><circle cx="12" cy="12" r="2"/><circle cx="12" cy="17" r="2"/>`,
}

// plusBadge is the static traffic logo placeholder.
const plusBadge = `<svg viewBox="0 0 24 24"><circle cx="12" cy="12" r="11" fill="#29ABE2"/><path d="M12 7v10M7 12h10" stroke="white" stroke-width="3" stroke-linecap="round"/></svg>`

// IconMarkup returns the stroked 24×24 icon name in color. Unknown names
// fall back to fallback.
func IconMarkup(name, fallback, color string, strokeWidth float64) string {
	body, ok := icons[name]
	if !ok {
		body = icons[fallback]
	}
	return fmt.Sprintf(
		`<svg width="24" height="24" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="%s" stroke-linecap="round" stroke-linejoin="round" style="color: %s">%s</svg>`,
		strconv.FormatFloat(strokeWidth, 'f', -1, 64), color, body,
	)
}
