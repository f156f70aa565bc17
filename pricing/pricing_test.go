package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVATRate(t *testing.T) {
	tests := []struct {
		name     string
		category string
		want     int
	}{
		{name: "farmaci reduced rate", category: "Farmaci", want: 10},
		{name: "other category standard rate", category: "Detergenza", want: 22},
		{name: "empty category standard rate", category: "", want: 22},
		{name: "case sensitive match", category: "farmaci", want: 22},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, VATRate(tt.category))
		})
	}
}

func TestVATRateIdempotent(t *testing.T) {
	// Same input, same output, no hidden state.
	for i := 0; i < 3; i++ {
		assert.Equal(t, 10, VATRate("Farmaci"))
		assert.Equal(t, 22, VATRate("Alimentari"))
	}
}

func TestFinalPrice(t *testing.T) {
	assert.Equal(t, 100.0, FinalPrice(100, 0), "zero discount keeps the price exact")
	assert.InDelta(t, 90.0, FinalPrice(100, 10), 1e-9)
	assert.InDelta(t, 7.5, FinalPrice(10, 25), 1e-9)
	assert.InDelta(t, 0.0, FinalPrice(100, 100), 1e-9)
}
