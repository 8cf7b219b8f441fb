package manifest

import "github.com/modelserve/mserve/pkg/api/types/hostselectors"

// HostSelector is a named node selector.
//
//	kind: HostSelector
//	name: gpu
//	node-selector:
//	  accelerator: nvidia-tesla-t4
type HostSelector struct {
	Name         string            `json:"name" validate:"required"`
	NodeSelector map[string]string `json:"node-selector" validate:"required,min=1"`
}

func (h *HostSelector) ToSpec() hostselectors.Spec {
	return hostselectors.Spec{Name: h.Name, NodeSelector: h.NodeSelector}
}
