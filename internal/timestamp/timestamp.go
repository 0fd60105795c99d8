// Package timestamp renders the fixed-offset timestamps stored in presence records.
package timestamp

import (
	"fmt"
	"math"
	"time"
)

// DefaultOffsetHours is the deployment offset used by every presence write.
const DefaultOffsetHours = 8

// Now formats the current instant with the given offset.
func Now(offsetHours float64) string {
	return Format(time.Now(), offsetHours)
}

// Format shifts t forward by offsetHours and renders the shifted instant's UTC
// fields as YYYY-MM-DDThh:mm:ss followed by the requested offset label.
//
// The label always reflects offsetHours as given (8.5 renders +08:30); it is
// not derived from a timezone database, so stored values stay comparable with
// earlier writes that used the same convention.
func Format(t time.Time, offsetHours float64) string {
	shifted := t.UTC().Add(time.Duration(offsetHours * float64(time.Hour)))

	return fmt.Sprintf("%d-%02d-%02dT%02d:%02d:%02d%s",
		shifted.Year(),
		int(shifted.Month()),
		shifted.Day(),
		shifted.Hour(),
		shifted.Minute(),
		shifted.Second(),
		Offset(offsetHours),
	)
}

// Offset renders the ±OH:OM suffix for offsetHours. Zero is treated as positive.
func Offset(offsetHours float64) string {
	sign := "+"
	if offsetHours < 0 {
		sign = "-"
	}
	abs := math.Abs(offsetHours)
	whole := math.Floor(abs)
	// minutes round independently of the hour, so 8.999 renders +08:60
	minutes := int(math.Floor((abs-whole)*60 + 0.5))
	return fmt.Sprintf("%s%02d:%02d", sign, int(whole), minutes)
}
