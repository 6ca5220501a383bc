package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexFloatDecoding(t *testing.T) {
	var body struct {
		Lat *FlexFloat `json:"latitude"`
		Lng *FlexFloat `json:"longitude"`
		Alt *FlexFloat `json:"altitude"`
		Bad *FlexFloat `json:"bad"`
	}

	err := json.Unmarshal([]byte(`{"latitude": 12.97, "longitude": "77.59", "bad": "north"}`), &body)
	require.NoError(t, err)

	require.NotNil(t, body.Lat)
	assert.True(t, body.Lat.Valid)
	assert.InDelta(t, 12.97, body.Lat.Value, 1e-9)

	require.NotNil(t, body.Lng)
	assert.True(t, body.Lng.Valid)
	assert.InDelta(t, 77.59, body.Lng.Value, 1e-9)

	assert.Nil(t, body.Alt, "absent fields stay nil")

	require.NotNil(t, body.Bad)
	assert.False(t, body.Bad.Valid)
}

func TestFlexIntDecoding(t *testing.T) {
	cases := map[string]struct {
		input string
		want  int64
		valid bool
	}{
		"number":       {`5`, 5, true},
		"string":       {`"12"`, 12, true},
		"whole float":  {`3.0`, 3, true},
		"fractional":   {`2.5`, 0, false},
		"not a number": {`"ten"`, 0, false},
		"empty string": {`""`, 0, false},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var v FlexInt
			require.NoError(t, json.Unmarshal([]byte(tc.input), &v))
			assert.Equal(t, tc.valid, v.Valid)
			assert.Equal(t, tc.want, v.Value)
		})
	}
}

func TestDateJSON(t *testing.T) {
	d, err := ParseDate("2025-06-14")
	require.NoError(t, err)

	out, err := json.Marshal(struct {
		Date Date `json:"date"`
	}{d})
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2025-06-14"}`, string(out))

	_, err = ParseDate("14/06/2025")
	assert.Error(t, err)
}

func TestCampaignListingCounters(t *testing.T) {
	c := &Campaign{ID: 1, NumVolunteers: 3, VolunteerCount: 5, Status: CampaignStatusPlanned}
	listing := NewCampaignListing(c, true)

	assert.Equal(t, 5, listing.ParticipationCount)
	assert.Equal(t, 0, listing.SpotsLeft, "spots left never goes negative")
	assert.True(t, listing.IsParticipating)

	out, err := json.Marshal(listing)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, float64(1), decoded["id"])
	assert.Equal(t, float64(0), decoded["spotsLeft"])
	assert.Equal(t, true, decoded["isParticipating"])
}

func TestStatusValidation(t *testing.T) {
	assert.True(t, IsValidRequestStatus("in-progress"))
	assert.False(t, IsValidRequestStatus("planned"))
	assert.True(t, IsValidCampaignStatus("planned"))
	assert.False(t, IsValidCampaignStatus("pending"))
}
