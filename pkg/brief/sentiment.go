package brief

import "strings"

// Sentiment is the coarse three-way label attached to a summary.
type Sentiment string

const (
	SentimentPositive Sentiment = "Positive"
	SentimentNegative Sentiment = "Negative"
	SentimentNeutral  Sentiment = "Neutral"
)

// Classifier derives a sentiment label from summary text.
type Classifier interface {
	Classify(summary string) Sentiment
}

// KeywordClassifier labels text by keyword presence. "positive" is checked
// before "negative", so text containing both is Positive.
type KeywordClassifier struct{}

// Classify implements Classifier.
func (KeywordClassifier) Classify(summary string) Sentiment {
	lower := strings.ToLower(summary)
	switch {
	case strings.Contains(lower, "positive"):
		return SentimentPositive
	case strings.Contains(lower, "negative"):
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}
