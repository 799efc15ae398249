package discovery

import (
	"fmt"
	"path/filepath"
	"sort"

	"gokoans/internal/domain"
)

// PathBuilder lays topics out on the path to enlightenment
type PathBuilder struct {
	order  map[string]int
	parser *Parser
}

// NewPathBuilder creates a PathBuilder walking topics in the given order.
// Topics not named in order follow, alphabetically.
func NewPathBuilder(order []string, parser *Parser) *PathBuilder {
	orderMap := make(map[string]int, len(order))
	for i, topic := range order {
		orderMap[topic] = i + 1
	}
	return &PathBuilder{order: orderMap, parser: parser}
}

// Build parses the koan files and returns their topics in path order, with
// every koan numbered by its position on the whole path.
func (b *PathBuilder) Build(files []string) ([]domain.Topic, error) {
	topics := make([]domain.Topic, 0, len(files))
	for _, file := range files {
		koans, err := b.parser.FindKoans(file)
		if err != nil {
			return nil, err
		}
		topics = append(topics, domain.Topic{
			Name:     TopicName(file),
			FilePath: file,
			Koans:    koans,
		})
	}

	sort.SliceStable(topics, func(i, j int) bool {
		oi, oj := b.rank(topics[i].Name), b.rank(topics[j].Name)
		if oi != oj {
			return oi < oj
		}
		if topics[i].Name != topics[j].Name {
			return topics[i].Name < topics[j].Name
		}
		return topics[i].FilePath < topics[j].FilePath
	})

	// Koans of one package share a namespace, so go test could not tell
	// duplicates apart.
	seen := make(map[string]string)
	order := 0
	for i := range topics {
		topics[i].Order = i + 1
		for j := range topics[i].Koans {
			koan := &topics[i].Koans[j]
			key := filepath.Dir(topics[i].FilePath) + "." + koan.Name
			if prev, ok := seen[key]; ok && prev != topics[i].FilePath {
				return nil, fmt.Errorf("koan %s is declared in both %s and %s", koan.Name, prev, topics[i].FilePath)
			}
			seen[key] = topics[i].FilePath
			order++
			koan.Order = order
		}
	}

	return topics, nil
}

func (b *PathBuilder) rank(topic string) int {
	if r, ok := b.order[topic]; ok {
		return r
	}
	return len(b.order) + 1
}

// Koans flattens topics into the koans on the path, in order
func Koans(topics []domain.Topic) []domain.Koan {
	var koans []domain.Koan
	for _, topic := range topics {
		koans = append(koans, topic.Koans...)
	}
	return koans
}
