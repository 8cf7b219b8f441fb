package deploymentconfigs

import (
	corev1 "k8s.io/api/core/v1"
)

// Spec is a named bundle of constraints applied to servables.
//
// Nil sub-specs mean "do not constrain this aspect".
type Spec struct {
	Name       string      `json:"name"`
	Container  *Container  `json:"container,omitempty"`
	Pod        *Pod        `json:"pod,omitempty"`
	Deployment *Deployment `json:"deployment,omitempty"`
	HPA        *HPA        `json:"hpa,omitempty"`
}

type Container struct {
	Resources *corev1.ResourceRequirements `json:"resources,omitempty"`
	Env       map[string]string            `json:"env,omitempty"`
}

type Pod struct {
	NodeSelector map[string]string   `json:"nodeSelector,omitempty"`
	Affinity     *corev1.Affinity    `json:"affinity,omitempty"`
	Tolerations  []corev1.Toleration `json:"tolerations,omitempty"`
}

type Deployment struct {
	ReplicaCount int32 `json:"replicaCount"`
}

type HPA struct {
	MinReplicas    *int32 `json:"minReplicas,omitempty"`
	MaxReplicas    int32  `json:"maxReplicas"`
	CpuUtilization *int32 `json:"cpuUtilization,omitempty"`
}

type Detail struct {
	Id int64 `json:"id,omitempty"`

	Spec
	// props in Spec will be flattened in json.
}
