package keyword

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenizeText(t *testing.T) {
	assert := assert.New(t)

	fixtures := []struct {
		s   string
		out []string
	}{
		{s: "1 'Two' three!", out: []string{"1", "two", "three"}},
		{s: "  foo1;bar2,baz3...", out: []string{"foo1", "bar2", "baz3"}},
		{s: "björk. weird", out: []string{"bjork", "weird"}},
		{s: "", out: []string{}},
	}

	for _, fix := range fixtures {
		assert.Equal(fix.out, TokenizeText(fix.s))
	}
}

func TestJaccard(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(1.0, Jaccard("buy now cheap", "Buy NOW cheap!"))
	assert.Equal(1.0, Jaccard("", ""))
	assert.Equal(0.0, Jaccard("something", ""))
	assert.Equal(0.0, Jaccard("alpha beta", "gamma delta"))

	// {a,b,c} vs {a,b,d}: 2 shared of 4 total
	assert.InDelta(0.5, Jaccard("a b c", "a b d"), 0.001)

	sim := Jaccard("free money click here now", "free money click here")
	assert.Greater(sim, 0.7)
	assert.Less(sim, 1.0)
}
