package main

import (
	"math"

	"go-hep.org/x/hep/hbook"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/decibelcooper/fccbana"
	"github.com/decibelcooper/fccbana/fastsim"
)

// effHist is the tracking efficiency of charged particles above a pt
// threshold as a function of eta.
type effHist struct {
	pTMin      float64
	etaLimit   float64
	nBins      int
	trueEta    *hbook.H1D
	trackedEta *hbook.H1D
}

func newEffHist(nBins int, etaLimit, pTMin float64) *effHist {
	return &effHist{
		pTMin:      pTMin,
		etaLimit:   etaLimit,
		nBins:      nBins,
		trueEta:    hbook.NewH1D(nBins, -etaLimit, etaLimit),
		trackedEta: hbook.NewH1D(nBins, -etaLimit, etaLimit),
	}
}

func (e *effHist) fill(ptc *fastsim.Particle) {
	if !ptc.IsCharged() || ptc.Pt() < e.pTMin {
		return
	}
	eta := ptc.Eta()
	e.trueEta.Fill(eta, 1)
	if ptc.SmearedTrack != nil {
		e.trackedEta.Fill(eta, 1)
	}
}

// points returns the efficiency per bin with binomial errors.
func (e *effHist) points() plotutil.ErrorPoints {
	points := make(plotter.XYs, e.nBins)
	xErrors := make(plotter.XErrors, e.nBins)
	yErrors := make(plotter.YErrors, e.nBins)
	binSigma := e.etaLimit / float64(e.nBins) / math.Sqrt(3.)
	for i := range points {
		trueBin := e.trueEta.Binning.Bins[i]
		nTrue := trueBin.SumW()
		nTracked := e.trackedEta.Binning.Bins[i].SumW()

		points[i].X = trueBin.XMid()
		xErrors[i].Low = binSigma
		xErrors[i].High = binSigma
		if nTrue > 0 {
			eff := nTracked / nTrue
			points[i].Y = eff
			yErrors[i].Low = math.Sqrt((1 - eff) * eff / nTrue)
			yErrors[i].High = yErrors[i].Low
		}
	}
	return plotutil.ErrorPoints{XYs: points, XErrors: xErrors, YErrors: yErrors}
}

func (e *effHist) plot(path string) error {
	p := plot.New()
	p.Title.Text = "Tracking efficiency"
	p.X.Label.Text = "eta"
	p.Y.Label.Text = "efficiency"
	p.X.Tick.Marker = fccbana.PreciseTicks{NSuggestedTicks: 5}
	p.Y.Tick.Marker = fccbana.PreciseTicks{NSuggestedTicks: 5}
	p.Y.Min = 0
	p.Y.Max = 1.05

	errPoints := e.points()
	xerr, err := plotter.NewXErrorBars(errPoints)
	if err != nil {
		return err
	}
	yerr, err := plotter.NewYErrorBars(errPoints)
	if err != nil {
		return err
	}
	p.Add(xerr, yerr)

	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}
