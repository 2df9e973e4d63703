package geofence

import (
	"fmt"
	"math"
	"strconv"
)

const earthRadiusKm = 6371.0

// Verifier checks reported coordinates against a fixed reference point.
// It is configured from environment strings; if any of the three values
// is missing or not numeric every verification is rejected with a
// configuration error instead of a distance.
type Verifier struct {
	latitude  float64
	longitude float64
	radiusKm  float64
	configErr string
}

type Result struct {
	Accepted   bool    `json:"accepted"`
	DistanceKm float64 `json:"distance_km"`
	Message    string  `json:"message"`
}

func NewVerifier(latStr, lonStr, radiusStr string) *Verifier {
	v := &Verifier{}

	if latStr == "" || lonStr == "" || radiusStr == "" {
		v.configErr = "school location is not configured (SCHOOL_LATITUDE, SCHOOL_LONGITUDE, SCHOOL_RADIUS_KM)"
		return v
	}

	var err error
	if v.latitude, err = strconv.ParseFloat(latStr, 64); err != nil {
		v.configErr = fmt.Sprintf("SCHOOL_LATITUDE %q is not numeric", latStr)
		return v
	}
	if v.longitude, err = strconv.ParseFloat(lonStr, 64); err != nil {
		v.configErr = fmt.Sprintf("SCHOOL_LONGITUDE %q is not numeric", lonStr)
		return v
	}
	if v.radiusKm, err = strconv.ParseFloat(radiusStr, 64); err != nil {
		v.configErr = fmt.Sprintf("SCHOOL_RADIUS_KM %q is not numeric", radiusStr)
		return v
	}

	return v
}

// Verify computes the great-circle distance from the reported point to
// the reference point and accepts it when inside the allowed radius.
func (v *Verifier) Verify(lat, lon float64) Result {
	if v.configErr != "" {
		return Result{Accepted: false, Message: v.configErr}
	}

	distance := Distance(lat, lon, v.latitude, v.longitude)

	if distance <= v.radiusKm {
		return Result{
			Accepted:   true,
			DistanceKm: distance,
			Message:    fmt.Sprintf("within allowed radius (%.2f km away)", distance),
		}
	}

	return Result{
		Accepted:   false,
		DistanceKm: distance,
		Message:    fmt.Sprintf("you are %.2f km away from school, allowed radius is %.2f km", distance, v.radiusKm),
	}
}

// Distance returns the Haversine great-circle distance in kilometres.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}
