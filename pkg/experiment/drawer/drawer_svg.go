package drawer

import (
	"fmt"
	"io"
	"os"
	"sort"
	"text/template"
	"time"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
	"gopkg.in/go-playground/colors.v1" //nolint

	"github.com/mjoliard/deconfound/internal/store"
	"github.com/mjoliard/deconfound/pkg/experiment/measure"
)

// SVGDrawer writes the experiment plan graph to an SVG-embeddable dot
// file. Edge colors fade from blue to red with the average time a stage
// spent waiting on its upstream.
type SVGDrawer struct {
	graph       graph.Graph[string, string]
	stages      map[string]struct{}
	svgFileName string
}

// NewSVGDrawer creates a drawer writing to the given file.
func NewSVGDrawer(svgFileName string) *SVGDrawer {
	return &SVGDrawer{
		svgFileName: svgFileName,
		graph:       graph.NewWithStore(graph.StringHash, store.NewMemoryStore[string, string](), graph.Directed()),
		stages:      make(map[string]struct{}),
	}
}

// AddStage adds a stage to the plan graph.
func (d *SVGDrawer) AddStage(stageName string) error {
	err := d.graph.AddVertex(stageName)
	if err != nil {
		return errors.Wrap(err, "unable to add vertex")
	}

	d.stages[stageName] = struct{}{}

	return nil
}

// AddLink adds a link between a stage and its downstream stage.
func (d *SVGDrawer) AddLink(parentStageName, childStageName string) error {
	err := d.graph.AddEdge(parentStageName, childStageName)
	if err != nil {
		return errors.Wrapf(err, "unable to add edge from %s to %s", parentStageName, childStageName)
	}

	return nil
}

// Draw writes the plan graph to the drawer's file.
func (d *SVGDrawer) Draw() error {
	file, err := os.Create(d.svgFileName)
	if err != nil {
		return errors.Wrapf(err, "unable to create file %s", d.svgFileName)
	}
	defer file.Close()

	err = dot(d.graph, file)
	if err != nil {
		return errors.Wrapf(err, "unable to render dot file %s", d.svgFileName)
	}

	return nil
}

// SetTotalTime attaches the elapsed wall time to a stage.
func (d *SVGDrawer) SetTotalTime(stageName string, startTime time.Time) error {
	_, properties, err := d.graph.VertexWithProperties(stageName)
	if err != nil {
		return errors.Wrap(err, "unable to get vertex properties")
	}

	properties.Attributes["xlabel"] = time.Since(startTime).String()

	return nil
}

const maxRGB = 240

// AddMeasure decorates the plan with recorded stage timings.
func (d *SVGDrawer) AddMeasure(msr measure.Measure) error {
	allWaitElapsed := make(map[time.Duration]string)
	sortedWaitElapsed := []time.Duration{}

	for _, stage := range msr.AllMetrics() {
		for _, info := range stage.AVGWaitDuration() {
			if info.Elapsed == 0 {
				continue
			}

			if _, ok := allWaitElapsed[info.Elapsed]; ok {
				continue
			}

			allWaitElapsed[info.Elapsed] = ""
			sortedWaitElapsed = append(sortedWaitElapsed, info.Elapsed)
		}
	}

	if len(sortedWaitElapsed) == 0 {
		return d.updateMetrics(msr, allWaitElapsed)
	}

	sort.Slice(sortedWaitElapsed, func(i, j int) bool {
		return sortedWaitElapsed[i] > sortedWaitElapsed[j]
	})

	maxValue := sortedWaitElapsed[0]
	minValue := sortedWaitElapsed[len(sortedWaitElapsed)-1]

	for curr := range allWaitElapsed {
		fraction := time.Duration(1)
		if maxValue > minValue {
			fraction = (curr - minValue) / (maxValue - minValue)
		}

		red := maxRGB * fraction
		blue := -maxRGB*fraction + maxRGB

		heat, err := colors.RGB(uint8(red), 0, uint8(blue)) //nolint
		if err != nil {
			return errors.Wrap(err, "unable to get colour")
		}

		allWaitElapsed[curr] = heat.ToHEX().String()
	}

	err := d.updateMetrics(msr, allWaitElapsed)
	if err != nil {
		return errors.Wrap(err, "unable to update metrics")
	}

	return nil
}

func (d *SVGDrawer) updateMetrics(msr measure.Measure, allWaitElapsed map[time.Duration]string) error {
	for name, stage := range msr.AllMetrics() {
		_, properties, err := d.graph.VertexWithProperties(name)
		if err != nil {
			return errors.Wrap(err, "unable to get vertex properties")
		}

		stageAvg := stage.AVGDuration()
		if stageAvg != 0 {
			properties.Attributes["xlabel"] = stageAvg.String()
		}

		if stage.GetTotalDuration() > 0 {
			properties.Attributes["xlabel"] += ", end: " + stage.GetTotalDuration().String()
		}

		for inputStage, info := range stage.AllWaits() {
			if info.Elapsed == 0 {
				continue
			}

			err := d.graph.UpdateEdge(inputStage, name,
				graph.EdgeAttribute("label", info.Elapsed.String()),
				graph.EdgeAttribute("fontcolor", "blue"),
				graph.EdgeAttribute("color", allWaitElapsed[info.Elapsed]), //nolint
			)
			if err != nil {
				return errors.Wrap(err, "unable to update edge")
			}
		}
	}

	return nil
}

//nolint:lll //this is a template
const dotTemplate = `strict {{.GraphType}} {
	{{range $k, $v := .Attributes}}
		{{$k}}="{{$v}}";
	{{end}}
	{{range $s := .Statements}}
		"{{.Source}}" {{if .Target}}{{$.EdgeOperator}} "{{.Target}}" [ {{range $k, $v := .EdgeAttributes}}{{$k}}="{{$v}}", {{end}} weight={{.EdgeWeight}} ]{{else}}[ {{range $k, $v := .HTMLAttributes}}{{$k}}={{$v}}, {{end}} {{range $k, $v := .SourceAttributes}}{{$k}}="{{$v}}", {{end}} weight={{.SourceWeight}} ]{{end}};
	{{end}}
	}
	`

type description struct {
	GraphType    string
	Attributes   map[string]string
	EdgeOperator string
	Statements   []statement
}

type statement struct {
	Source           interface{}
	Target           interface{}
	SourceAttributes map[string]string
	HTMLAttributes   map[string]string
	EdgeAttributes   map[string]string
	SourceWeight     int
	EdgeWeight       int
}

func dot[K comparable, T any](g graph.Graph[K, T], wrt io.Writer, options ...func(*description)) error {
	desc, err := generateDOT(g, options...)
	if err != nil {
		return fmt.Errorf("failed to generate DOT description: %w", err)
	}

	return renderDOT(wrt, desc)
}

// GraphAttribute is a functional option for the dot rendering.
func GraphAttribute(key, value string) func(*description) {
	return func(d *description) {
		d.Attributes[key] = value
	}
}

func generateDOT[K comparable, T any](gra graph.Graph[K, T], options ...func(*description)) (description, error) {
	desc := description{
		GraphType:    "graph",
		Attributes:   make(map[string]string),
		EdgeOperator: "--",
		Statements:   make([]statement, 0),
	}

	for _, option := range options {
		option(&desc)
	}

	if gra.Traits().IsDirected {
		desc.GraphType = "digraph"
		desc.EdgeOperator = "->"
	}

	adjacencyMap, err := gra.AdjacencyMap()
	if err != nil {
		return desc, errors.Wrap(err, "unable to get adjacency map")
	}

	for vertex, adjacencies := range adjacencyMap {
		_, sourceProperties, err := gra.VertexWithProperties(vertex)
		if err != nil {
			return desc, errors.Wrap(err, "unable to get vertex properties")
		}

		htmlAttributes := make(map[string]string)

		if xlabel, ok := sourceProperties.Attributes["xlabel"]; ok {
			htmlAttributes["label"] = fmt.Sprintf(`<%+v <BR /> <FONT POINT-SIZE="12">%s</FONT>>`, vertex, xlabel)

			delete(sourceProperties.Attributes, "xlabel")
		}

		stmt := statement{
			Source:           vertex,
			SourceWeight:     sourceProperties.Weight,
			SourceAttributes: sourceProperties.Attributes,
			HTMLAttributes:   htmlAttributes,
		}
		desc.Statements = append(desc.Statements, stmt)

		for adjacency, edge := range adjacencies {
			stmt := statement{
				Source:         vertex,
				Target:         adjacency,
				EdgeWeight:     edge.Properties.Weight,
				EdgeAttributes: edge.Properties.Attributes,
			}
			desc.Statements = append(desc.Statements, stmt)
		}
	}

	return desc, nil
}

func renderDOT(wrt io.Writer, desc description) error {
	tpl, err := template.New("dotTemplate").Parse(dotTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	err = tpl.Execute(wrt, desc)
	if err != nil {
		return errors.Wrap(err, "unable to execute template")
	}

	return nil
}

var _ Drawer = (*SVGDrawer)(nil)
