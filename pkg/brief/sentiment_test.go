package brief

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeywordClassifier(t *testing.T) {
	c := KeywordClassifier{}

	tests := []struct {
		name string
		text string
		want Sentiment
	}{
		{"positive keyword", "Overall sentiment: Positive. Buy the dip.", SentimentPositive},
		{"negative keyword", "Sentiment: Negative, sell everything", SentimentNegative},
		{"neither keyword", "Markets were quiet today.", SentimentNeutral},
		{"empty text", "", SentimentNeutral},
		{"case insensitive", "sentiment is POSITIVE overall", SentimentPositive},
		// Priority rule: "positive" wins when both keywords appear.
		{"both keywords", "Negative start, but the outlook turned positive.", SentimentPositive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, c.Classify(tt.text))
		})
	}
}
