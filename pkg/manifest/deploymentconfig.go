package manifest

import (
	"fmt"
	"sort"
	"strings"

	"github.com/modelserve/mserve/pkg/api/types/deploymentconfigs"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	"k8s.io/apimachinery/pkg/util/validation"
)

// DeploymentConfiguration is a definition of constraints applied to servables.
//
// Absent sub-specs do not constrain the aspect.
//
// Keys defined here are hyphenated (node-selector, replica-count).
// Subtrees which are kubernetes objects (resources, affinity, tolerations) keep
// kubernetes' camelCase keys (nodeAffinity, tolerationSeconds) as they are.
//
//	kind: DeploymentConfiguration
//	name: cpu-small
//	container:
//	  resources:
//	    limits: {cpu: 500m, memory: 1Gi}
//	pod:
//	  node-selector: {"node.kubernetes.io/instance-type": m5.large}
//	  affinity:
//	    nodeAffinity:
//	      requiredDuringSchedulingIgnoredDuringExecution:
//	        nodeSelectorTerms:
//	          - matchExpressions:
//	              - {key: zone, operator: In, values: [a, b]}
//	  tolerations:
//	    - {key: dedicated, operator: Equal, value: serving, effect: NoSchedule, tolerationSeconds: 60}
//	deployment:
//	  replica-count: 2
//	hpa:
//	  min-replicas: 2
//	  max-replicas: 10
//	  cpu-utilization: 80
type DeploymentConfiguration struct {
	Name       string      `json:"name" validate:"required"`
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
	NodeSelector map[string]string   `json:"node-selector,omitempty"`
	Affinity     *corev1.Affinity    `json:"affinity,omitempty"`
	Tolerations  []corev1.Toleration `json:"tolerations,omitempty"`
}

type Deployment struct {
	ReplicaCount int32 `json:"replica-count" validate:"min=1"`
}

type HPA struct {
	MinReplicas    *int32 `json:"min-replicas,omitempty" validate:"omitempty,min=1"`
	MaxReplicas    int32  `json:"max-replicas" validate:"min=1"`
	CpuUtilization *int32 `json:"cpu-utilization,omitempty" validate:"omitempty,min=1,max=100"`
}

func (p *Parser) normalizeDeploymentConfiguration(d *DeploymentConfiguration) error {
	if c := d.Container; c != nil {
		if c.Resources != nil {
			for name, request := range c.Resources.Requests {
				limit, ok := c.Resources.Limits[name]
				if ok && exceeds(request, limit) {
					return fmt.Errorf(
						"container.resources: request of %s (%s) exceeds its limit (%s)",
						name, request.String(), limit.String(),
					)
				}
			}
		}

		names := make([]string, 0, len(c.Env))
		for name := range c.Env {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if errs := validation.IsEnvVarName(name); len(errs) != 0 {
				return fmt.Errorf(
					"container.env: %s is not an environment variable name: %s",
					name, strings.Join(errs, "; "),
				)
			}
		}
	}
	if d.HPA != nil && d.HPA.MinReplicas != nil && d.HPA.MaxReplicas < *d.HPA.MinReplicas {
		return fmt.Errorf(
			"hpa: max-replicas (%d) is less than min-replicas (%d)",
			d.HPA.MaxReplicas, *d.HPA.MinReplicas,
		)
	}
	return nil
}

func exceeds(request, limit resource.Quantity) bool {
	return 0 < request.Cmp(limit)
}

// ToSpec converts the definition to the request body for the cluster.
func (d *DeploymentConfiguration) ToSpec() deploymentconfigs.Spec {
	spec := deploymentconfigs.Spec{Name: d.Name}
	if c := d.Container; c != nil {
		spec.Container = &deploymentconfigs.Container{
			Resources: c.Resources, Env: c.Env,
		}
	}
	if pod := d.Pod; pod != nil {
		spec.Pod = &deploymentconfigs.Pod{
			NodeSelector: pod.NodeSelector,
			Affinity:     pod.Affinity,
			Tolerations:  pod.Tolerations,
		}
	}
	if dep := d.Deployment; dep != nil {
		spec.Deployment = &deploymentconfigs.Deployment{ReplicaCount: dep.ReplicaCount}
	}
	if hpa := d.HPA; hpa != nil {
		spec.HPA = &deploymentconfigs.HPA{
			MinReplicas:    hpa.MinReplicas,
			MaxReplicas:    hpa.MaxReplicas,
			CpuUtilization: hpa.CpuUtilization,
		}
	}
	return spec
}
