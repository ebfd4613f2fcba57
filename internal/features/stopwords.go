package features

var defaultStopWords = wordSet(
	"a", "about", "after", "all", "an", "and", "any", "are", "as", "at",
	"be", "been", "before", "but", "by", "can", "did", "do", "does",
	"for", "from", "had", "has", "have", "he", "her", "his", "i", "if",
	"in", "into", "is", "it", "its", "me", "my", "no", "not", "of", "on",
	"or", "our", "she", "so", "that", "the", "their", "them", "then",
	"there", "these", "they", "this", "to", "up", "was", "we", "were",
	"what", "when", "which", "who", "will", "with", "would", "you",
	"your",
)

func wordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
