package geofence

import (
	"math"
	"strings"
	"testing"
)

func TestDistanceSamePoint(t *testing.T) {
	if d := Distance(19.0760, 72.8777, 19.0760, 72.8777); d != 0 {
		t.Errorf("expected zero distance for identical points, got %f", d)
	}
}

func TestDistanceKnownValue(t *testing.T) {
	// One degree of latitude is very close to 111.19 km.
	d := Distance(0, 0, 1, 0)
	if math.Abs(d-111.19) > 0.5 {
		t.Errorf("expected ~111.19 km for one degree of latitude, got %f", d)
	}
}

func TestDistanceSymmetry(t *testing.T) {
	a := Distance(19.0760, 72.8777, 28.6139, 77.2090)
	b := Distance(28.6139, 77.2090, 19.0760, 72.8777)
	if math.Abs(a-b) > 1e-9 {
		t.Errorf("distance is not symmetric: %f vs %f", a, b)
	}
}

func TestVerifyWithinRadius(t *testing.T) {
	v := NewVerifier("19.0760", "72.8777", "1.0")

	res := v.Verify(19.0765, 72.8780)
	if !res.Accepted {
		t.Fatalf("expected nearby point to be accepted, got %+v", res)
	}
	if res.DistanceKm <= 0 || res.DistanceKm > 1.0 {
		t.Errorf("unexpected distance %f", res.DistanceKm)
	}
}

func TestVerifyOutsideRadius(t *testing.T) {
	v := NewVerifier("19.0760", "72.8777", "1.0")

	// Delhi is far more than 1 km from Mumbai.
	res := v.Verify(28.6139, 77.2090)
	if res.Accepted {
		t.Fatalf("expected far point to be rejected, got %+v", res)
	}
	if res.DistanceKm < 1000 {
		t.Errorf("expected a distance above 1000 km, got %f", res.DistanceKm)
	}
	if !strings.Contains(res.Message, "allowed radius") {
		t.Errorf("unexpected rejection message %q", res.Message)
	}
}

func TestVerifyBoundaryIsInclusive(t *testing.T) {
	v := NewVerifier("0", "0", "200")

	// Well inside 200 km.
	if res := v.Verify(1, 0); !res.Accepted {
		t.Errorf("expected point inside the radius to be accepted, got %+v", res)
	}
}

func TestVerifyMissingConfig(t *testing.T) {
	v := NewVerifier("", "", "")

	res := v.Verify(19.0760, 72.8777)
	if res.Accepted {
		t.Fatal("expected verification to be rejected without configuration")
	}
	if !strings.Contains(res.Message, "not configured") {
		t.Errorf("unexpected message %q", res.Message)
	}
}

func TestVerifyNonNumericConfig(t *testing.T) {
	cases := []struct {
		name             string
		lat, lon, radius string
	}{
		{"latitude", "abc", "72.8", "1"},
		{"longitude", "19.0", "abc", "1"},
		{"radius", "19.0", "72.8", "abc"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := NewVerifier(tc.lat, tc.lon, tc.radius)
			if res := v.Verify(19.0, 72.8); res.Accepted {
				t.Errorf("expected rejection for non-numeric %s", tc.name)
			}
		})
	}
}
