package kuoro_test

import (
	"testing"

	"github.com/mkettu/kuoro"
	"github.com/stretchr/testify/assert"
)

func TestEnvelopeValidate(t *testing.T) {
	assert.Nil(t, kuoro.Envelope{Attack: 0.01, Decay: 0.05, Sustain: 0.7, Release: 0.05}.Validate())
	assert.Nil(t, kuoro.Envelope{Sustain: 1.5}.Validate(), "the sustain ratio is not range checked")
	assert.ErrorIs(t, kuoro.Envelope{Attack: -0.01}.Validate(), kuoro.ErrInvalidArgument)
	assert.ErrorIs(t, kuoro.Envelope{Release: -1}.Validate(), kuoro.ErrInvalidArgument)
}

func TestParametersCopy(t *testing.T) {
	params := kuoro.Parameters{"detune": 5, "gain": 0.5}
	copied := params.Copy()
	copied["detune"] = 9
	assert.Equal(t, 5.0, params["detune"], "Copy should not share storage")
	assert.Equal(t, 9.0, copied["detune"])
}
