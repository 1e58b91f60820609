package team

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lwmacct/251215-go-pkg-aiteam/pkg/provider"
)

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" Code-Review ")
	require.NoError(t, err)
	assert.Equal(t, KindCodeReview, k)

	_, err = ParseKind("poetry")
	assert.ErrorIs(t, err, ErrValidation)

	for _, k := range Kinds() {
		assert.True(t, k.Valid())
	}
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		in      string
		want    Strategy
		wantErr bool
	}{
		{"", StrategyParallel, false},
		{"parallel", StrategyParallel, false},
		{"SEQUENTIAL", StrategySequential, false},
		{"best-match", StrategyBestMatch, false},
		{"consensus", StrategyConsensus, false},
		{"round-robin", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStrategy(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStrategy_Execution(t *testing.T) {
	assert.Equal(t, StrategyParallel, StrategyConsensus.Execution())
	assert.Equal(t, StrategyParallel, StrategyParallel.Execution())
	assert.Equal(t, StrategySequential, StrategySequential.Execution())
	assert.Equal(t, StrategyBestMatch, StrategyBestMatch.Execution())
}

func TestError(t *testing.T) {
	cause := errors.New("upstream 503")
	err := newError(ErrorKindSynthesisUnavailable, PhaseSynthesizing, cause, "synthesis via %s failed", "gemini")

	assert.Equal(t, "synthesis via gemini failed: upstream 503", err.Error())
	assert.ErrorIs(t, err, ErrSynthesisUnavailable)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrAllMembersFailed)

	wrapped := fmt.Errorf("handler: %w", err)
	assert.ErrorIs(t, wrapped, ErrSynthesisUnavailable)
	assert.Equal(t, ErrorKindSynthesisUnavailable, KindOf(wrapped))

	assert.Equal(t, "no_responses", ErrNoResponses.Error())
}

func TestKindOf(t *testing.T) {
	_, stubErr := provider.Stub(provider.IDOllama).Generate(context.Background(), &provider.Request{})

	assert.Equal(t, ErrorKind(""), KindOf(nil))
	assert.Equal(t, ErrorKindProviderNotImplemented, KindOf(stubErr))
	assert.Equal(t, ErrorKindUnknown, KindOf(errors.New("other")))
	assert.Equal(t, ErrorKindValidation, KindOf(Validate(&Task{Kind: KindGeneral})))
}
