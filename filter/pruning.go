package filter

import (
	"math"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Signal weights for the pruning scorer, generalized from the teacher's
// cleaner/pruning.go scoreElement.
const (
	wTextDensity   = 3.0
	wLinkDensity   = -2.0
	wTagWeight     = 1.5
	wClassIDWeight = 1.0
	wTextLength    = 0.5
)

var positiveClassIDPatterns = []string{
	"content", "article", "post", "entry", "body", "main", "text",
}

var negativeClassIDPatterns = []string{
	"sidebar", "ad", "widget", "nav", "menu", "comment", "footer",
	"header", "banner", "popup", "modal", "cookie", "social", "share",
	"related", "recommend", "promo",
}

// ThresholdMode selects how Pruning picks its cutoff score.
type ThresholdMode int

const (
	// FixedThreshold keeps every block scoring above Threshold.
	FixedThreshold ThresholdMode = iota
	// DynamicThreshold derives the cutoff from the block score
	// distribution (mean + StdDevFactor*stddev) instead of a fixed value.
	DynamicThreshold
)

// Pruning removes boilerplate subtrees by a text-density/link-density/
// tag/class-id composite score, generalized from the teacher's PruneContent.
type Pruning struct {
	Mode ThresholdMode

	// Threshold is the cutoff used in FixedThreshold mode.
	Threshold float64

	// StdDevFactor scales the standard deviation added to the mean score
	// when Mode is DynamicThreshold. Defaults to 1.0 if zero.
	StdDevFactor float64
}

// NewPruning returns a Pruning with the teacher's original fixed threshold.
func NewPruning() *Pruning {
	return &Pruning{Mode: FixedThreshold, Threshold: 0.0}
}

// scoredBlock is a scored top-level body child.
type scoredBlock struct {
	html  string
	score float64
}

// Filter implements Filter.
func (p *Pruning) Filter(rawHTML string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return rawHTML, err
	}

	body := doc.Find("body")
	if body.Length() == 0 {
		return rawHTML, nil
	}

	var blocks []scoredBlock
	body.Children().Each(func(_ int, el *goquery.Selection) {
		html, err := goquery.OuterHtml(el)
		if err != nil {
			return
		}
		blocks = append(blocks, scoredBlock{html: html, score: scoreElement(el)})
	})

	threshold := p.Threshold
	if p.Mode == DynamicThreshold {
		threshold = dynamicThreshold(blocks, p.StdDevFactor)
	}

	var retained []string
	for _, b := range blocks {
		if b.score > threshold {
			retained = append(retained, b.html)
		}
	}

	if len(retained) == 0 {
		html, err := body.Html()
		if err != nil {
			return rawHTML, nil
		}
		return html, nil
	}

	return strings.Join(retained, "\n"), nil
}

func dynamicThreshold(blocks []scoredBlock, factor float64) float64 {
	if len(blocks) == 0 {
		return 0
	}
	if factor == 0 {
		factor = 1.0
	}

	scores := make([]float64, len(blocks))
	var sum float64
	for i, b := range blocks {
		scores[i] = b.score
		sum += b.score
	}
	mean := sum / float64(len(scores))

	var variance float64
	for _, s := range scores {
		variance += (s - mean) * (s - mean)
	}
	variance /= float64(len(scores))
	stddev := math.Sqrt(variance)

	return mean + factor*stddev
}

// scoreElement computes a weighted score for a DOM element based on text
// density, link density, semantic tag weight, class/id hints, and text
// length, exactly as the teacher's cleaner/pruning.go.
func scoreElement(el *goquery.Selection) float64 {
	fullHTML, err := goquery.OuterHtml(el)
	if err != nil {
		return 0
	}

	text := strings.TrimSpace(el.Text())
	textLen := len(text)
	totalLen := len(fullHTML)

	textDensity := 0.0
	if totalLen > 0 {
		textDensity = float64(textLen) / float64(totalLen)
	}

	linkTextLen := 0
	el.Find("a").Each(func(_ int, a *goquery.Selection) {
		linkTextLen += len(strings.TrimSpace(a.Text()))
	})
	linkDensity := 0.0
	if textLen > 0 {
		linkDensity = float64(linkTextLen) / float64(textLen)
	}

	tagW := tagWeight(el)
	classIDW := classIDWeight(el)
	textLenScore := math.Log10(float64(textLen) + 1)

	return textDensity*wTextDensity +
		linkDensity*wLinkDensity +
		tagW*wTagWeight +
		classIDW*wClassIDWeight +
		textLenScore*wTextLength
}

func tagWeight(el *goquery.Selection) float64 {
	switch goquery.NodeName(el) {
	case "article", "main", "section":
		return 5.0
	case "nav", "footer", "aside", "header":
		return -5.0
	default:
		return 0.0
	}
}

func classIDWeight(el *goquery.Selection) float64 {
	class, _ := el.Attr("class")
	id, _ := el.Attr("id")
	combined := strings.ToLower(class + " " + id)

	score := 0.0
	for _, pat := range positiveClassIDPatterns {
		if strings.Contains(combined, pat) {
			score += 3.0
			break
		}
	}
	for _, pat := range negativeClassIDPatterns {
		if strings.Contains(combined, pat) {
			score -= 3.0
			break
		}
	}
	return score
}
