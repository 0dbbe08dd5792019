package amap

import (
	"fmt"
	"net/url"
	"strings"
)

const staticMapSize = "750*500"

// StaticMapURL builds a shareable static map image URL: start marker red, end
// green, waypoints blue, lettered A, B, C..., with a path line when there are
// at least two points. Returns "" for an empty itinerary.
// https://lbs.amap.com/api/webservice/guide/api/staticmaps
func (c *Client) StaticMapURL(points []Waypoint) string {
	if len(points) == 0 {
		return ""
	}

	coords := make([]string, len(points))
	for i, p := range points {
		coords[i] = formatWaypoint(p)
	}

	params := url.Values{}
	params.Set("size", staticMapSize)

	if len(coords) == 1 {
		params.Set("location", coords[0])
		params.Set("zoom", "13")
		params.Set("markers", fmt.Sprintf("mid,0xFF0000,A:%s", coords[0]))
	} else {
		markers := make([]string, len(coords))
		for i, coord := range coords {
			color := "0x0000FF"
			switch i {
			case 0:
				color = "0xFF0000"
			case len(coords) - 1:
				color = "0x00FF00"
			}
			label := string(rune('A' + i))
			if i >= 26 {
				label = fmt.Sprintf("%d", i+1)
			}
			markers[i] = fmt.Sprintf("mid,%s,%s:%s", color, label, coord)
		}
		params.Set("markers", strings.Join(markers, "|"))
		params.Set("path", fmt.Sprintf("5,0x0000FF,1,0:%s", strings.Join(coords, ";")))
	}

	params.Set("key", c.apiKey)
	if sig := c.Sign(params); sig != "" {
		params.Set("sig", sig)
	}

	return fmt.Sprintf("%s/staticmap?%s", c.baseURL, params.Encode())
}
