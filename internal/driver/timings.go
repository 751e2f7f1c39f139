package driver

import (
	"encoding/json"
	"fmt"

	"upvalcheck/internal/diag"
	"upvalcheck/internal/observ"
	"upvalcheck/internal/source"
)

type timingPayload struct {
	Kind    string               `json:"kind"`
	Path    string               `json:"path,omitempty"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases"`
}

// AppendTimings records res.Timing as an ObsTimings info diagnostic whose
// note carries the phases as JSON. It bypasses the bag limit.
func AppendTimings(res *Result) {
	if res == nil || res.Bag == nil {
		return
	}
	payload := timingPayload{
		Kind:    "file",
		Path:    res.Path,
		TotalMS: res.Timing.TotalMS,
		Phases:  res.Timing.Phases,
	}
	if res.Cached {
		payload.Kind = "cached"
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}

	var span source.Span
	if res.File != nil {
		span.File = res.File.ID
	}
	entry := diag.New(diag.SevInfo, diag.ObsTimings, span,
		fmt.Sprintf("timings (%s): total %.2f ms", payload.Kind, payload.TotalMS)).
		WithNote(span, string(data))

	if res.Bag.Cap() == 0 || res.Bag.Len() < res.Bag.Cap() {
		res.Bag.Add(entry)
		return
	}
	overflow := diag.NewBag(0)
	overflow.Add(entry)
	res.Bag.Merge(overflow)
}
