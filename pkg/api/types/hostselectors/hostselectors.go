package hostselectors

type Spec struct {
	Name         string            `json:"name"`
	NodeSelector map[string]string `json:"nodeSelector"`
}

type Detail struct {
	Id int64 `json:"id,omitempty"`

	Spec
	// props in Spec will be flattened in json.
}
