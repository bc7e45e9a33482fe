package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"os"

	"github.com/pkg/profile"
	"go-hep.org/x/hep/hbook"
	"go-hep.org/x/hep/hplot"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/decibelcooper/fccbana"
	"github.com/decibelcooper/fccbana/fastsim"
	"github.com/decibelcooper/fccbana/input"
	"github.com/decibelcooper/fccbana/mc"
	"github.com/decibelcooper/fccbana/tuple"
)

var (
	nPtcs      = flag.Int("n", 1000, "number of toy particles per species")
	thetaMin   = flag.Float64("thetamin", 0.5, "minimum polar angle of toy particles (rad)")
	thetaMax   = flag.Float64("thetamax", 2.6, "maximum polar angle of toy particles (rad)")
	eMin       = flag.Float64("emin", 1, "minimum energy of toy particles (GeV)")
	eMax       = flag.Float64("emax", 50, "maximum energy of toy particles (GeV)")
	seed       = flag.Uint64("seed", 1, "random seed")
	output     = flag.String("o", "detsim.root", "output ROOT file")
	respPlot   = flag.String("plot", "response.png", "calorimeter response plot")
	resPlot    = flag.String("resplot", "trackres.png", "track resolution heat map")
	effPlot    = flag.String("effplot", "trackeff.png", "tracking efficiency plot")
	nBinsEff   = flag.Int("nbinseff", 50, "number of eta bins of the tracking efficiency")
	pTMin      = flag.Float64("minpt", 0.5, "minimum transverse momentum in the heat map")
	pTMax      = flag.Float64("maxpt", 30, "maximum transverse momentum in the heat map")
	etaLimit   = flag.Float64("etalimit", 2.5, "maximum absolute value of eta in the heat map")
	resLimit   = flag.Float64("reslimit", 0.05, "maximum pt resolution in the color map")
	nBinsPT    = flag.Int("nbinspt", 10, "number of bins in transverse momentum")
	nBinsEta   = flag.Int("nbinseta", 10, "number of bins in eta")
	nThreads   = flag.Int("t", 4, "number of input files decoded concurrently")
	collection = flag.String("collection", "MCParticle", "LCIO collection of MC particles")
	tag        = flag.String("tag", "Particle", "proio tag of MC particles")
	verbose    = flag.Bool("v", false, "debug logging")
	doProfile  = flag.Bool("profile", false, "write a CPU profile")

	pdgs     = fccbana.IntArrayFlags{Array: []int{mc.Photon, mc.PiPlus}}
	etaEdges = fccbana.FloatArrayFlags{Array: []float64{0, 1.5, 2.9}}
)

func init() {
	flag.Var(&pdgs, "pdg", "toy particle species (repeatable)")
	flag.Var(&etaEdges, "etaedge", "|eta| boundaries of the response histograms (repeatable)")
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: `+os.Args[0]+` [options] [input-files]...

Simulates toy particles, or the final-state particles of generator-level
input files, through the CMS-like detector.

options:
`,
	)
	flag.PrintDefaults()
}

func main() {
	flag.Usage = printUsage
	flag.Parse()
	if len(etaEdges.Array) < 2 {
		printUsage()
		log.Fatal("Invalid arguments: need at least two eta edges")
	}

	logCfg := zap.NewProductionConfig()
	if *verbose {
		logCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := logCfg.Build()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	if err := run(logger); err != nil {
		logger.Fatal("detsim failed", zap.Error(err))
	}
}

func run(logger *zap.Logger) error {
	if *doProfile {
		defer profile.Start().Stop()
	}

	f, err := tuple.Create(*output)
	if err != nil {
		return err
	}
	defer f.Close()

	h := newHists()
	if err := f.Attach(h.tuple); err != nil {
		return err
	}
	sim := fastsim.NewSimulator(fastsim.CMS(), *seed, logger)

	if flag.NArg() == 0 {
		src := rand.NewSource(*seed + 1)
		for _, pdg := range pdgs.Array {
			ptcs := fastsim.ToyParticles(src, *nPtcs, pdg, *thetaMin, *thetaMax, *eMin, *eMax, r3.Vec{})
			if err := simulate(sim, h, ptcs); err != nil {
				return err
			}
		}
	} else if err := simulateFiles(sim, h, logger); err != nil {
		return err
	}

	if err := h.write(f); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	if err := h.plotResponse(*respPlot); err != nil {
		return err
	}
	if err := h.eff.plot(*effPlot); err != nil {
		return err
	}
	return h.plotTrackRes(*resPlot)
}

func simulateFiles(sim *fastsim.Simulator, h *hists, logger *zap.Logger) error {
	events, wait := input.Stream(context.Background(), flag.Args(), inputOptions(), *nThreads, logger)
	var simErr error
	for evt := range events {
		if simErr != nil {
			continue
		}
		var ptcs []*fastsim.Particle
		for _, p := range evt.Particles {
			if len(p.Children) == 0 {
				ptcs = append(ptcs, fastsim.FromMC(p))
			}
		}
		simErr = simulate(sim, h, ptcs)
	}
	if err := wait(); err != nil {
		return err
	}
	return simErr
}

func inputOptions() input.Options {
	return input.Options{Collection: *collection, Tag: *tag}
}

func simulate(sim *fastsim.Simulator, h *hists, ptcs []*fastsim.Particle) error {
	if err := sim.Simulate(ptcs); err != nil {
		return err
	}
	for _, ptc := range ptcs {
		if err := h.fill(ptc); err != nil {
			return err
		}
	}
	return nil
}

type hists struct {
	// response[pdg][i] is the smeared calorimeter energy over the true
	// energy, in the i-th |eta| region
	response map[int][]*hbook.H1D
	trackRes *fccbana.ResGrid
	eff      *effHist
	tuple    *tuple.Tuple
}

func newHists() *hists {
	res := fccbana.NewResGrid(*nBinsEta, -*etaLimit, *etaLimit, *nBinsPT, *pTMin, *pTMax)
	return &hists{
		response: make(map[int][]*hbook.H1D),
		trackRes: res,
		eff:      newEffHist(*nBinsEff, *etaLimit, *pTMin),
		tuple: tuple.New("particles", "simulated particles",
			"pdg", "e", "eta", "phi",
			"e_ecal", "e_hcal", "e_ecal_smeared", "e_hcal_smeared",
			"pt_track", "pt_track_smeared",
		),
	}
}

func etaRegion(eta float64) int {
	absEta := math.Abs(eta)
	for i := 1; i < len(etaEdges.Array); i++ {
		if absEta >= etaEdges.Array[i-1] && absEta < etaEdges.Array[i] {
			return i - 1
		}
	}
	return -1
}

func (h *hists) fill(ptc *fastsim.Particle) error {
	var eTrue, eSmeared float64
	f := &filler{t: h.tuple}
	for _, layer := range []struct {
		name, col string
	}{
		{"ecal_in", "e_ecal"},
		{"hcal_in", "e_hcal"},
	} {
		if cl, ok := ptc.Clusters[layer.name]; ok {
			eTrue += cl.Energy
			f.set(layer.col, cl.Energy)
		}
		if cl, ok := ptc.SmearedClusters[layer.name]; ok {
			eSmeared += cl.Energy
			f.set(layer.col+"_smeared", cl.Energy)
		}
	}

	if region := etaRegion(ptc.Eta()); region >= 0 && eTrue > 0 && eSmeared > 0 {
		hs, ok := h.response[ptc.PDG]
		if !ok {
			for range etaEdges.Array[1:] {
				hs = append(hs, hbook.NewH1D(100, 0, 2))
			}
			h.response[ptc.PDG] = hs
		}
		hs[region].Fill(eSmeared/ptc.E(), 1)
	}

	if ptc.Track != nil {
		f.set("pt_track", ptc.Track.Pt())
		if sm := ptc.SmearedTrack; sm != nil {
			f.set("pt_track_smeared", sm.Pt())
			h.trackRes.Fill(ptc.Eta(), ptc.Pt(), sm.Pt()/ptc.Track.Pt())
		}
	}

	h.eff.fill(ptc)

	mom := ptc.Mom()
	f.set("pdg", float64(ptc.PDG))
	f.set("e", ptc.E())
	f.set("eta", ptc.Eta())
	f.set("phi", math.Atan2(mom.Y, mom.X))
	if f.err != nil {
		return f.err
	}
	return h.tuple.Commit()
}

// filler fills a tuple and keeps the first error.
type filler struct {
	t   *tuple.Tuple
	err error
}

func (f *filler) set(name string, v float64) {
	if f.err != nil {
		return
	}
	f.err = f.t.Fill(name, v)
}

func (h *hists) write(f *tuple.File) error {
	for pdg, hs := range h.response {
		for i, hist := range hs {
			name := fmt.Sprintf("response_%d_eta%d", pdg, i)
			title := fmt.Sprintf("E_{smeared}/E_{true}, pdg %d, %v < |#eta| < %v", pdg, etaEdges.Array[i], etaEdges.Array[i+1])
			if err := f.PutH1D(name, title, hist); err != nil {
				return err
			}
		}
	}
	if err := f.PutH1D("eff_true_eta", "charged particles", h.eff.trueEta); err != nil {
		return err
	}
	if err := f.PutH1D("eff_tracked_eta", "reconstructed tracks", h.eff.trackedEta); err != nil {
		return err
	}
	return f.PutH2D("track_entries", "tracks per (#eta, p_{T}) bin", h.trackRes.Counts())
}

func (h *hists) plotResponse(path string) error {
	p := hplot.New()
	p.Title.Text = "Calorimeter response"
	p.X.Label.Text = "E_smeared / E_true"
	p.X.Tick.Marker = fccbana.PreciseTicks{NSuggestedTicks: 5}
	p.Legend.Top = true

	i := 0
	for _, pdg := range pdgs.Array {
		hs, ok := h.response[pdg]
		if !ok {
			continue
		}
		info, _ := mc.Lookup(pdg)
		for region, hist := range hs {
			if hist.Entries() == 0 {
				continue
			}
			hh := hplot.NewH1D(hist)
			hh.FillColor = nil
			hh.LineStyle.Color = plotutil.Color(i)
			hh.Infos.Style = hplot.HInfoNone
			p.Add(hh)
			p.Legend.Add(fmt.Sprintf("%s, |eta| < %v", info.Name, etaEdges.Array[region+1]), hh)
			i++
		}
	}
	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}

func (h *hists) plotTrackRes(path string) error {
	p := plot.New()
	p.Title.Text = "Track p_T resolution"
	p.X.Label.Text = "eta"
	p.Y.Label.Text = "p_T"
	p.X.Tick.Marker = fccbana.PreciseTicks{NSuggestedTicks: 5}
	p.Y.Tick.Marker = fccbana.PreciseTicks{NSuggestedTicks: 5}

	img := vgimg.New(670, 400)
	dc := draw.New(img)
	dc0 := draw.Crop(dc, 0, -70, 0, 0)
	dc1 := draw.Crop(dc, 620, 0, 0, 0)

	colorMap := moreland.ExtendedBlackBody()
	colorMap.SetMin(0)
	colorMap.SetMax(*resLimit)
	heatMap := plotter.NewHeatMap(h.trackRes, colorMap.Palette(1000))
	heatMap.Min = 0
	heatMap.Max = *resLimit
	p.Add(heatMap)
	p.Draw(dc0)

	p = plot.New()
	colorBar := &plotter.ColorBar{ColorMap: colorMap}
	colorBar.Vertical = true
	p.Add(colorBar)
	p.HideX()
	p.Y.Padding = 0
	p.Draw(dc1)

	w, err := os.Create(path)
	if err != nil {
		return err
	}
	defer w.Close()
	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(w); err != nil {
		return err
	}
	return w.Close()
}
