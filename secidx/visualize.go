package secidx

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// LevelStats summarizes one tree depth: how many nodes live there and how
// full they are on average, as a fraction of MaxKeyNum.
type LevelStats struct {
	Depth     int
	NodeCount int
	AvgFill   float64
}

// levelStats walks the tree breadth-first from the root and aggregates
// occupancy per depth. It never reports depths beyond any leaf, since a
// B+-tree is balanced by construction.
func (t *IndexHandle) levelStats() ([]LevelStats, error) {
	var stats []LevelStats
	level := []int32{t.hdr.RootNode}

	for depth := 0; len(level) > 0; depth++ {
		var next []int32
		var fillSum float64

		for _, id := range level {
			n, err := loadNode(t.pool, t.fileID, id, t.hdr)
			if err != nil {
				return nil, err
			}
			fillSum += float64(n.curNum) / float64(t.hdr.MaxKeyNum)
			if !n.isLeaf {
				for i := 0; i < int(n.curNum); i++ {
					next = append(next, n.ithPage(i))
				}
			}
		}

		stats = append(stats, LevelStats{
			Depth:     depth,
			NodeCount: len(level),
			AvgFill:   fillSum / float64(len(level)),
		})
		level = next
	}
	return stats, nil
}

// Plot renders a bar chart of average node occupancy per tree depth to
// path, in the image format named by path's extension (e.g. .png). This replaces the teacher's Graphviz-based tree dump with
// an in-process chart: there is no dot binary to shell out to here, and a
// fill-ratio-by-level view is more useful than a full node-by-node graph
// once a tree has more than a few hundred pages.
func (t *IndexHandle) Plot(path string) error {
	stats, err := t.levelStats()
	if err != nil {
		return err
	}

	p, err := plot.New()
	if err != nil {
		return fmt.Errorf("secidx: plot: %w", err)
	}
	p.Title.Text = fmt.Sprintf("secidx occupancy (%s, width %d)", t.hdr.AttrType, t.hdr.AttrLength)
	p.Y.Label.Text = "average fill ratio"
	p.Y.Min = 0
	p.Y.Max = 1

	values := make(plotter.Values, len(stats))
	labels := make([]string, len(stats))
	for i, s := range stats {
		values[i] = s.AvgFill
		labels[i] = fmt.Sprintf("L%d (%d)", s.Depth, s.NodeCount)
	}

	bars, err := plotter.NewBarChart(values, vg.Points(28))
	if err != nil {
		return fmt.Errorf("secidx: plot: %w", err)
	}
	bars.Color = plotutil.Color(0)
	p.Add(bars)
	p.NominalX(labels...)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("secidx: plot: save %s: %w", path, err)
	}
	return nil
}
