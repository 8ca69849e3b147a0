package flow

import (
	"fmt"
	"math/rand/v2"
	"time"
)

const protocolPrefix = "DEN"

// cuiaba is the civil timezone of the service. Protocol dates and record
// timestamps are always rendered in it, wherever the process runs.
var cuiaba = func() *time.Location {
	loc, err := time.LoadLocation("America/Cuiaba")
	if err != nil {
		return time.FixedZone("-04", -4*60*60)
	}
	return loc
}()

// Protocol builds a tracking code DEN-DDMMYYYY-NNN where NNN is a random
// sequence in [0, 999]. There is no collision check: two submissions on the
// same day can draw the same code. Accepted at the service's volume.
func Protocol(now time.Time) string {
	seq := rand.IntN(1000)
	return fmt.Sprintf("%s-%s-%03d", protocolPrefix, now.In(cuiaba).Format("02012006"), seq)
}

// Timestamp renders now as DD/MM/YYYY HH:MM:SS in the service timezone.
func Timestamp(now time.Time) string {
	return now.In(cuiaba).Format("02/01/2006 15:04:05")
}
