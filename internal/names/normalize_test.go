package names

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		raw    string
		want   string
		wantOK bool
	}{
		{"José Martínez", "jose martinez", true},
		{"jose martinez", "jose martinez", true},
		{"JOSE   MARTINEZ!!", "jose martinez", true},
		{"  Rafael Nadal  ", "rafael nadal", true},
		{"rafael   nadal", "rafael nadal", true},
		{"Peña Ñúñez", "pena nunez", true},
		{"M.Torro-Flor", "m torro flor", true},
		{"Jo-Wilfried Tsonga", "jo wilfried tsonga", true},
		{"O'Connell\tChristopher", "o connell christopher", true},
		{"Player 1", "player", true},
		{"Ｆｕｌｌ Ｗｉｄｔｈ", "full width", true},
		{"", "", false},
		{"   ", "", false},
		{"123 456", "", false},
		{"!!!", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := Normalize(tt.raw)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"José Martínez",
		"  ALEXANDER   Blockx ",
		"Learner Tien",
		"Đoković, Novak",
		"Stan Wawrinka (SUI)",
		"a b",
		"x",
	}

	for _, in := range inputs {
		once, ok := Normalize(in)
		if !ok {
			continue
		}
		twice, ok2 := Normalize(once)
		assert.True(t, ok2, "normalize(%q) should stay usable", once)
		assert.Equal(t, once, twice, "normalize must be a projection for %q", in)
	}
}

func TestNormalize_Deterministic(t *testing.T) {
	for i := 0; i < 50; i++ {
		got, _ := Normalize("Carlos Alcaraz Garfia")
		assert.Equal(t, "carlos alcaraz garfia", got)
	}
}

func TestNormalize_AccentCasePunctuationInvariance(t *testing.T) {
	a, _ := Normalize("José Martínez")
	b, _ := Normalize("jose martinez")
	c, _ := Normalize("JOSE   MARTINEZ!!")

	assert.Equal(t, a, b)
	assert.Equal(t, b, c)
	assert.Equal(t, "jose martinez", c)
}

func TestTokenCount(t *testing.T) {
	assert.Equal(t, 0, TokenCount("   "))
	assert.Equal(t, 1, TokenCount("X"))
	assert.Equal(t, 2, TokenCount(" Learner  Tien "))
	assert.Equal(t, 3, TokenCount("Juan Martin\tdel"))
}
