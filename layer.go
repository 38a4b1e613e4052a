package milun

// layerTable resolves named layers to their ordinal.
type layerTable map[string]int

// resolve returns the ordinal for name. Unknown names resolve to layer 0.
func (t layerTable) resolve(name string) int {
	if z, ok := t[name]; ok {
		return z
	}
	Logger().Debug("milun: unknown layer name, using 0", "layer", name)
	return 0
}
