package extract

import (
	"pdxmill/internal/diag"
	"pdxmill/internal/script"
)

// Field readers shared by the extractors. A value of the wrong shape for a
// known key degrades to an ExtractionWarning and leaves the field unset.

func strField(n *script.Node, key string, diags *[]diag.Diagnostic) *string {
	if n.IsBlock() {
		*diags = append(*diags, diag.Warnf(diag.ExtractionWarning,
			"field %q: expected scalar, found block", key))
		return nil
	}
	s := n.String()
	return &s
}

func numField(n *script.Node, key string, diags *[]diag.Diagnostic) *float64 {
	v, ok := n.Float()
	if !ok {
		*diags = append(*diags, diag.Warnf(diag.ExtractionWarning,
			"field %q: expected number, found %q", key, n.String()))
		return nil
	}
	return &v
}

func boolField(n *script.Node, key string, diags *[]diag.Diagnostic) *bool {
	v, ok := n.Bool()
	if !ok {
		*diags = append(*diags, diag.Warnf(diag.ExtractionWarning,
			"field %q: expected yes/no, found %q", key, n.String()))
		return nil
	}
	return &v
}

func appendStrField(dst *[]string, n *script.Node, key string, diags *[]diag.Diagnostic) {
	if n.IsBlock() {
		*diags = append(*diags, diag.Warnf(diag.ExtractionWarning,
			"field %q: expected scalar, found block", key))
		return
	}
	*dst = append(*dst, n.String())
}

func setStr(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setNum(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setFlag(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
