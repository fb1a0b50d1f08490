package dto

import (
	"encoding/json"
	"testing"
	"weather-coordinates-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromResultShapes(t *testing.T) {
	tests := []struct {
		name string
		in   domain.CityResult
		want string
	}{
		{
			name: "ok",
			in: domain.OK(domain.Coordinates{
				Name: ptr("Szeged"), Latitude: ptr(46.253), Longitude: ptr(20.14824), Country: ptr("Hungary"), Timezone: ptr("Europe/Budapest"),
			}),
			want: `{"name":"Szeged","latitude":46.253,"longitude":20.14824,"country":"Hungary","timezone":"Europe/Budapest"}`,
		},
		{
			name: "failed",
			in:   domain.Failed("unexpected status 502"),
			want: `{"error":"unexpected status 502"}`,
		},
		{
			name: "no match",
			in:   domain.NoMatch(),
			want: `{}`,
		},
		{
			name: "ok at zero coordinates keeps the fields",
			in:   domain.OK(domain.Coordinates{Name: ptr("Null Island"), Latitude: ptr(0.0), Longitude: ptr(0.0), Country: ptr("")}),
			want: `{"name":"Null Island","latitude":0,"longitude":0,"country":"","timezone":null}`,
		},
		{
			name: "ok with every field missing upstream",
			in:   domain.OK(domain.Coordinates{}),
			want: `{"name":null,"latitude":null,"longitude":null,"country":null,"timezone":null}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := json.Marshal(FromResult(tt.in))
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(b))
		})
	}
}

func TestFromResultsSkipsNoMatch(t *testing.T) {
	out := FromResults(map[string]domain.CityResult{
		"a": domain.OK(domain.Coordinates{Name: ptr("A")}),
		"b": domain.NoMatch(),
		"c": domain.Failed("x"),
	})

	assert.Len(t, out, 2)
	_, ok := out["b"]
	assert.False(t, ok)
}

func TestCityCoordinateInsideResponse(t *testing.T) {
	b, err := json.Marshal(CoordinatesResponse{
		Data: FromResults(map[string]domain.CityResult{
			"szeged": domain.OK(domain.Coordinates{Name: ptr("Szeged"), Longitude: ptr(20.14824)}),
		}),
	})
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"data":{"szeged":{"name":"Szeged","latitude":null,"longitude":20.14824,"country":null,"timezone":null}},"cached":false}`,
		string(b),
	)
}

func ptr[T any](v T) *T { return &v }
