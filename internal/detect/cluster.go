package detect

// Cluster is one or more merged same-class detections.
type Cluster struct {
	// Label is the shared class name of the merged detections.
	Label string `json:"label"`

	// ClassIndex is the shared class index.
	ClassIndex int `json:"class_index"`

	// Confidence is the maximum confidence among the merged detections.
	Confidence float64 `json:"confidence"`

	// Box is the confidence-weighted average of the merged boxes.
	Box Box `json:"box"`

	// Count is the number of detections merged into this cluster.
	Count int `json:"count"`

	// weight accumulates the confidence mass used for averaging.
	weight float64
}

// IoU returns the intersection-over-union of two boxes.
//
// The result is in [0,1]: identical boxes score 1, disjoint boxes score 0,
// and the function is symmetric in its arguments. Degenerate boxes with no
// area score 0 against everything.
func IoU(a, b Box) float64 {
	interLeft := max(a.X, b.X)
	interTop := max(a.Y, b.Y)
	interRight := min(a.X+a.Width, b.X+b.Width)
	interBottom := min(a.Y+a.Height, b.Y+b.Height)

	if interRight <= interLeft || interBottom <= interTop {
		return 0
	}

	inter := (interRight - interLeft) * (interBottom - interTop)
	union := a.Width*a.Height + b.Width*b.Height - inter
	if union <= 0 {
		return 0
	}
	return inter / union
}

// MergeClusters merges near-duplicate detections of the same class.
//
// Detections are scanned in input order. Each one is compared against the
// existing clusters of its class; if its IoU with one of them exceeds
// iouThreshold it merges into the FIRST such cluster — not the best-scoring
// one — otherwise it seeds a new cluster. Merging updates the cluster box
// to the confidence-weighted average of its members and the cluster
// confidence to the maximum member confidence.
//
// This is deliberately simple, order-dependent clustering rather than
// canonical non-max suppression: input order can change which cluster a
// borderline detection joins. Inputs are assumed to be already confidence
// gated by Decode; no threshold filtering happens here.
func MergeClusters(detections []Detection, iouThreshold float64) []Cluster {
	clusters := make([]Cluster, 0, len(detections))

	for _, d := range detections {
		merged := false
		for i := range clusters {
			c := &clusters[i]
			if c.ClassIndex != d.ClassIndex {
				continue
			}
			if IoU(c.Box, d.Box) > iouThreshold {
				mergeInto(c, d)
				merged = true
				break
			}
		}
		if !merged {
			clusters = append(clusters, Cluster{
				Label:      d.Label,
				ClassIndex: d.ClassIndex,
				Confidence: d.Confidence,
				Box:        d.Box,
				Count:      1,
				weight:     d.Confidence,
			})
		}
	}

	return clusters
}

// mergeInto folds a detection into an existing cluster.
func mergeInto(c *Cluster, d Detection) {
	total := c.weight + d.Confidence
	if total > 0 {
		c.Box.X = (c.Box.X*c.weight + d.Box.X*d.Confidence) / total
		c.Box.Y = (c.Box.Y*c.weight + d.Box.Y*d.Confidence) / total
		c.Box.Width = (c.Box.Width*c.weight + d.Box.Width*d.Confidence) / total
		c.Box.Height = (c.Box.Height*c.weight + d.Box.Height*d.Confidence) / total
	}
	c.weight = total
	if d.Confidence > c.Confidence {
		c.Confidence = d.Confidence
	}
	c.Count++
}

func max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
