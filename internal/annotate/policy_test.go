package annotate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPolicy_Schedule(t *testing.T) {
	tests := []struct {
		name   string
		policy Policy
		want   []time.Duration
	}{
		{
			name:   "detect",
			policy: DetectPolicy(),
			want: []time.Duration{
				50 * time.Millisecond,
				3 * time.Second,
				3 * time.Second,
				6 * time.Second,
				12 * time.Second,
				24 * time.Second,
				48 * time.Second,
				96 * time.Second,
				192 * time.Second,
				384 * time.Second,
				2 * time.Second,
				4 * time.Second,
				8 * time.Second,
			},
		},
		{
			name:   "translate starts at the escalated delay",
			policy: TranslatePolicy(),
			want: []time.Duration{
				3 * time.Second,
				3 * time.Second,
				3 * time.Second,
				6 * time.Second,
				12 * time.Second,
				24 * time.Second,
				48 * time.Second,
				96 * time.Second,
				192 * time.Second,
				384 * time.Second,
				2 * time.Second,
				4 * time.Second,
				8 * time.Second,
			},
		},
		{
			name: "reconnect after is never reached",
			policy: Policy{
				Initial:        time.Millisecond,
				Escalated:      10 * time.Millisecond,
				ReconnectDelay: time.Hour,
				ReconnectAfter: 10,
				MaxAttempts:    4,
			},
			want: []time.Duration{
				time.Millisecond,
				10 * time.Millisecond,
				10 * time.Millisecond,
				20 * time.Millisecond,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.policy.Schedule())
		})
	}
}

func TestPolicy_Delay(t *testing.T) {
	p := DetectPolicy()
	assert.Equal(t, 50*time.Millisecond, p.Delay(0))
	assert.Equal(t, 50*time.Millisecond, p.Delay(1))
	assert.Equal(t, 384*time.Second, p.Delay(10))
	assert.Equal(t, 2*time.Second, p.Delay(11))
}

func TestPolicy_Validate(t *testing.T) {
	assert.NoError(t, DetectPolicy().Validate())
	assert.NoError(t, TranslatePolicy().Validate())

	p := DetectPolicy()
	p.MaxAttempts = 0
	assert.EqualError(t, p.Validate(), "max attempts must be at least 1")

	p = DetectPolicy()
	p.Initial = -time.Second
	assert.EqualError(t, p.Validate(), "delays must not be negative")
}
