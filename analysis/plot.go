package analysis

import (
	"go-hep.org/x/hep/hbook"
	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/plot/vg"

	"github.com/decibelcooper/fccbana"
)

// Plot saves one PNG per cut histogram, named <prefix>_<hist>.png.
func (c *Common) Plot(prefix string) error {
	for _, h := range []struct {
		name, title, xlabel string
		h                   *hbook.H1D
	}{
		{"pb", "B momentum", "P_{B} (GeV)", c.PB},
		{"fdb", "B flight distance", "FD_{B} (mm)", c.FDB},
		{"fdtau", "Max tau flight distance", "Max FD_{tau} (mm)", c.FDTau},
		{"mkpi", "K pi invariant mass", "M_{K pi} (GeV)", c.MKpi},
	} {
		p := hplot.New()
		p.Title.Text = h.title
		p.X.Label.Text = h.xlabel
		p.X.Tick.Marker = fccbana.PreciseTicks{NSuggestedTicks: 5}

		hist := hplot.NewH1D(h.h)
		hist.Infos.Style = hplot.HInfoSummary
		p.Add(hist)

		if err := p.Save(6*vg.Inch, 4*vg.Inch, prefix+"_"+h.name+".png"); err != nil {
			return err
		}
	}
	return nil
}
