package apply

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-logr/logr"
	"github.com/modelserve/mserve/pkg/manifest"
	"go.uber.org/multierr"
)

// SourceResult is the result of applying a Source.
type SourceResult struct {
	Source string

	// Submitted are resources created from the source, in order.
	//
	// Resources created before Err occurred are kept. They are not rolled back.
	Submitted []Submitted

	// Err is the error aborted applying the source.
	Err error
}

func (r SourceResult) MarshalJSON() ([]byte, error) {
	v := struct {
		Source    string      `json:"source"`
		Submitted []Submitted `json:"submitted"`
		Error     string      `json:"error,omitempty"`
	}{
		Source:    r.Source,
		Submitted: r.Submitted,
	}
	if v.Submitted == nil {
		v.Submitted = []Submitted{}
	}
	if r.Err != nil {
		v.Error = r.Err.Error()
	}
	return json.Marshal(v)
}

// Report is the result of an apply, per source in the order processed.
type Report struct {
	Sources []SourceResult `json:"sources"`
}

// Of returns the result of the source named name.
func (r *Report) Of(name string) (SourceResult, bool) {
	for _, s := range r.Sources {
		if s.Source == name {
			return s, true
		}
	}
	return SourceResult{}, false
}

// Err combines errors of sources. It is nil when all sources are applied.
func (r *Report) Err() error {
	var err error
	for _, s := range r.Sources {
		if s.Err != nil {
			err = multierr.Append(err, fmt.Errorf("%s: %w", s.Source, s.Err))
		}
	}
	return err
}

// Orchestrator applies manifests to a cluster.
type Orchestrator struct {
	cluster Cluster
	parser  *manifest.Parser
	options Options
	logger  logr.Logger
}

func NewOrchestrator(cluster Cluster, options Options, logger logr.Logger) *Orchestrator {
	return &Orchestrator{
		cluster: cluster,
		parser:  manifest.NewParser(logger),
		options: options,
		logger:  logger,
	}
}

type decoded struct {
	Source
	docs []map[string]any
	err  error
}

// Apply applies manifests in inputs, in order.
//
// Documents in sources are submitted one by one, and a later document can refer resources
// submitted before with template references.
// Documents with unknown kind are skipped.
// The first error in a source aborts the rest of the source, and the next source is applied.
//
// # Returns
//
// - *Report: results per source.
//
// - error: ErrApplicationApply if models declare monitoring but the monitoring backend
// is not reachable. In that case, nothing is submitted.
// Or, ctx.Err() when ctx is done between sources.
func (o *Orchestrator) Apply(ctx context.Context, inputs []string) (*Report, error) {
	sources := []decoded{}
	for _, src := range ExpandSources(inputs, o.options.Recursive) {
		sources = append(sources, o.decode(src))
	}

	if !o.options.IgnoreMonitoring && requiresMonitoring(sources) {
		if err := o.cluster.PingMonitoring(ctx); err != nil {
			return nil, fmt.Errorf(
				"%w: monitoring backend is not reachable (ignore monitoring to apply without metrics): %w",
				ErrApplicationApply, err,
			)
		}
	}

	actx := NewContext()
	submitter := NewSubmitter(o.cluster, actx, o.options, o.logger)

	report := &Report{}
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		submitted, err := o.applySource(ctx, submitter, actx, src)
		if err != nil {
			o.logger.Error(err, "failed to apply", "source", src.Name)
		}
		report.Sources = append(report.Sources, SourceResult{
			Source: src.Name, Submitted: submitted, Err: err,
		})
	}
	return report, nil
}

func (o *Orchestrator) decode(src Source) decoded {
	if src.Err != nil {
		return decoded{Source: src}
	}
	r, err := src.open(o.options.Stdin)
	if err != nil {
		return decoded{Source: src, err: err}
	}
	defer r.Close()
	docs, err := manifest.Decode(r)
	return decoded{Source: src, docs: docs, err: err}
}

func requiresMonitoring(sources []decoded) bool {
	for _, src := range sources {
		for _, doc := range src.docs {
			if kind, err := manifest.KindOf(doc); err != nil || kind != manifest.KindModel {
				continue
			}
			if m, ok := doc["monitoring"].([]any); ok && 0 < len(m) {
				return true
			}
		}
	}
	return false
}

func (o *Orchestrator) applySource(ctx context.Context, submitter *Submitter, actx *Context, src decoded) ([]Submitted, error) {
	if src.Source.Err != nil {
		return nil, src.Source.Err
	}

	submitted := []Submitted{}
	for nth, doc := range src.docs {
		def, err := o.parser.Parse(doc)
		if errors.Is(err, manifest.ErrUnknownKind) {
			o.logger.Info("skipping document", "source", src.Name, "document", nth, "reason", err.Error())
			continue
		} else if err != nil {
			return submitted, fmt.Errorf("document #%d: %w", nth, err)
		}

		o.logger.V(1).Info("submitting", "source", src.Name, "kind", def.Kind(), "name", def.ResourceName())
		result, err := submitter.Submit(ctx, def, src.BaseDir)
		if err != nil {
			if result.created() {
				submitted = append(submitted, result)
			}
			return submitted, fmt.Errorf("document #%d: %w", nth, err)
		}
		actx.Register(result)
		submitted = append(submitted, result)
	}

	if src.err != nil {
		return submitted, src.err
	}
	return submitted, nil
}
