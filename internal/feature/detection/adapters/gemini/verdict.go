package gemini

import (
	"encoding/json"
	"math/rand"
	"strings"
	"sync"
	"time"

	"medicine_backend/internal/feature/detection/domain"
	"medicine_backend/internal/feature/detection/domain/entity"
)

// Prompt is the fixed instruction sent alongside the image.
const Prompt = "You are a medicine authenticity checker. The following image is a photo of a packaged pharmaceutical product. " +
	`Only answer in concise JSON: {"medicineType":"Genuine"|"Fake","confidence":float between 0 and 1,"summary":string explanation}. ` +
	"Is this medicine FAKE or GENUINE? Give your best estimate based on visual clues and counterfeiting patterns."

// Verdict is the validated answer extracted from the model text.
type Verdict struct {
	MedicineType entity.MedicineType
	Confidence   float64
	Summary      string
}

// ParseVerdict isolates the JSON object embedded in text, checks field types and
// normalizes the result. Confidence is clamped to [0, 1]; any medicineType other
// than exactly "Fake" becomes Genuine.
func ParseVerdict(text string) (*Verdict, error) {
	var fields map[string]any
	if err := json.Unmarshal([]byte(extractJSONObject(text)), &fields); err != nil {
		return nil, &domain.MalformedResponseError{Raw: text, Err: err}
	}

	medicineType, okType := fields["medicineType"].(string)
	confidence, okConf := fields["confidence"].(float64)
	summary, okSummary := fields["summary"].(string)

	var missing []string
	if !okType {
		missing = append(missing, "medicineType")
	}
	if !okConf {
		missing = append(missing, "confidence")
	}
	if !okSummary {
		missing = append(missing, "summary")
	}
	if len(missing) > 0 {
		raw, _ := json.Marshal(fields)
		return nil, &domain.IncompleteResponseError{Raw: string(raw), Missing: missing}
	}

	return &Verdict{
		MedicineType: entity.ParseMedicineType(medicineType),
		Confidence:   entity.ClampConfidence(confidence),
		Summary:      summary,
	}, nil
}

// extractJSONObject returns the span from the first '{' to the last '}',
// or the trimmed text unchanged when no such span exists.
func extractJSONObject(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end <= start {
		return strings.TrimSpace(text)
	}
	return text[start : end+1]
}

// clusterSource generates the decorative cluster points attached to external results.
type clusterSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func newClusterSource() *clusterSource {
	return &clusterSource{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (s *clusterSource) next() []entity.ClusterPoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return entity.RandomClusters(s.rng)
}

// toResult combines a verdict with freshly generated clusters.
func (v *Verdict) toResult(clusters []entity.ClusterPoint) *entity.DetectionResult {
	return &entity.DetectionResult{
		Clusters:     clusters,
		MedicineType: v.MedicineType,
		Confidence:   v.Confidence,
		Summary:      v.Summary,
	}
}
