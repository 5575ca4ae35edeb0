package dataset

import (
	"gonum.org/v1/gonum/mat"

	"github.com/wmvanvliet/golem/pkg/errors"
)

// Field names accepted by FromFields. They are also the section names of the
// persisted container.
const (
	FieldXs        = "xs"
	FieldYs        = "ys"
	FieldIDs       = "ids"
	FieldFeatLab   = "feat_lab"
	FieldClLab     = "cl_lab"
	FieldFeatShape = "feat_shape"
	FieldExtra     = "extra"
	FieldDefault   = "default"
)

// FromFields builds a Dataset from loosely typed named fields, as read from
// a configuration file or another dynamic source. An unknown name yields a
// *errors.ContractError and a value of the wrong Go type a
// *errors.TypeError. A nil value counts as "not given".
func FromFields(in map[string]any) (*Dataset, error) {
	var base *Dataset
	var opts []Option
	for _, name := range sortedKeys(in) {
		v := in[name]
		if v == nil {
			continue
		}
		switch name {
		case FieldXs, FieldYs, FieldIDs:
			m, ok := v.(mat.Matrix)
			if !ok {
				return nil, errors.NewTypeError("FromFields", name, "a mat.Matrix", v)
			}
			switch name {
			case FieldXs:
				opts = append(opts, WithXs(m))
			case FieldYs:
				opts = append(opts, WithYs(m))
			default:
				opts = append(opts, WithIDs(m))
			}
		case FieldFeatLab, FieldClLab:
			labels, ok := v.([]string)
			if !ok {
				return nil, errors.NewTypeError("FromFields", name, "a []string", v)
			}
			if name == FieldFeatLab {
				opts = append(opts, WithFeatureLabels(labels))
			} else {
				opts = append(opts, WithClassLabels(labels))
			}
		case FieldFeatShape:
			shape, ok := v.([]int)
			if !ok {
				return nil, errors.NewTypeError("FromFields", name, "a []int", v)
			}
			opts = append(opts, WithFeatureShape(shape))
		case FieldExtra:
			extra, ok := v.(map[string]any)
			if !ok {
				return nil, errors.NewTypeError("FromFields", name, "a map[string]any", v)
			}
			opts = append(opts, WithExtra(extra))
		case FieldDefault:
			d, ok := v.(*Dataset)
			if !ok {
				return nil, errors.NewTypeError("FromFields", name, "a *Dataset", v)
			}
			base = d
		default:
			return nil, errors.NewContractError("FromFields", name)
		}
	}
	return build("FromFields", base, opts)
}
