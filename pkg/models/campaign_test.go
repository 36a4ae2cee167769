package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFollowUpMessageSequence(t *testing.T) {
	c := &Campaign{
		FollowUpMessage1: "first",
		FollowUpMessage2: "second",
		FollowUpMessage3: "third",
	}

	assert.Equal(t, "first", c.FollowUpMessage(0))
	assert.Equal(t, "second", c.FollowUpMessage(1))
	assert.Equal(t, "third", c.FollowUpMessage(2))
	assert.Equal(t, "", c.FollowUpMessage(3))
}

func TestNextFollowUpDelayDays(t *testing.T) {
	c := &Campaign{FollowUpDelayDays2: 4, FollowUpDelayDays3: 7}

	assert.Equal(t, 4, c.NextFollowUpDelayDays(0))
	assert.Equal(t, 7, c.NextFollowUpDelayDays(1))
	assert.Equal(t, 0, c.NextFollowUpDelayDays(2))
}

func TestCampaignRates(t *testing.T) {
	c := &Campaign{}
	assert.Zero(t, c.AcceptanceRate())
	assert.Zero(t, c.ReplyRate())

	c.ConnectionsSent = 10
	c.ConnectionsAccepted = 4
	c.MessagesSent = 8
	c.RepliesReceived = 2
	assert.InDelta(t, 40.0, c.AcceptanceRate(), 0.001)
	assert.InDelta(t, 25.0, c.ReplyRate(), 0.001)
}

func TestStringListScan(t *testing.T) {
	var l StringList
	assert.NoError(t, l.Scan([]byte(`["CTO","CEO"]`)))
	assert.Equal(t, StringList{"CTO", "CEO"}, l)

	var empty StringList
	assert.NoError(t, empty.Scan(nil))
	assert.Nil(t, empty)

	v, err := StringList{"CTO"}.Value()
	assert.NoError(t, err)
	assert.JSONEq(t, `["CTO"]`, v.(string))

	empty2, err := StringList(nil).Value()
	assert.NoError(t, err)
	assert.Equal(t, "[]", empty2)
}
