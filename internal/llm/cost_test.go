package llm

import "testing"

func TestEstimateCostKnownModel(t *testing.T) {
	// gpt-4o-mini: $0.15/M input, $0.60/M output.
	got := EstimateCost("gpt-4o-mini", 1_000_000, 1_000_000)
	want := 0.75
	if diff := got - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("EstimateCost = %f, want %f", got, want)
	}
}

func TestEstimateCostUnknownModelIsFree(t *testing.T) {
	if got := EstimateCost("llama3.2", 50_000, 50_000); got != 0 {
		t.Errorf("unknown model cost = %f, want 0", got)
	}
}

func TestEstimateCostEmbeddingModel(t *testing.T) {
	got := EstimateCost("text-embedding-3-small", 2_000_000, 0)
	want := 0.04
	if diff := got - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("EstimateCost = %f, want %f", got, want)
	}
}

func TestEstimateTokens(t *testing.T) {
	if got := EstimateTokens(""); got != 0 {
		t.Errorf("empty text = %d tokens, want 0", got)
	}
	if got := EstimateTokens("ab"); got != 1 {
		t.Errorf("short text = %d tokens, want at least 1", got)
	}
	if got := EstimateTokens("12345678"); got != 2 {
		t.Errorf("8 chars = %d tokens, want 2", got)
	}
}
