// Package dataset provides Dataset, the container that couples a feature
// matrix, a one-of-N label matrix, per-instance identifiers and descriptive
// metadata.
//
// A Dataset is immutable by convention. Every structural operation (Index,
// Add, Concat, GetClass, Sorted, With) returns a new value; the only
// mutation path is the feature-shape view returned by NDXs, which aliases
// the storage of the feature matrix.
//
// # Construction
//
//	xs := mat.NewDense(2, 3, []float64{0, 0, 0, 1, 1, 1})
//	ys := mat.NewDense(2, 2, []float64{0, 1, 1, 0})
//	d, err := dataset.New(xs, ys,
//	    dataset.WithFeatureLabels([]string{"f1", "f2", "f3"}),
//	    dataset.WithClassLabels([]string{"A", "B"}),
//	)
//
// Fields that are not given get defaults: ids become the column 0..n-1,
// class labels become class0..classN-1, the feature shape becomes
// [nfeatures] and extra becomes an empty map. A copy with modifications is
// made with With (or FromDefault); options passed a nil value keep the
// template's field.
//
// # Selection
//
//	head, _ := d.Index(dataset.Range(0, 10))
//	odd, _ := d.Index(dataset.Slice(1, dataset.End, 2))
//	last, _ := d.Index(dataset.Row(-1))
//
// # Equality
//
// Equal compares all arrays element-wise and all metadata. Instance order is
// significant; use Sorted to canonicalise two datasets holding the same
// instances in a different order. Fingerprint hashes a canonical byte layout
// of every compared field, so it is independent of matrix strides.
//
// # Persistence
//
// Save/SaveFile write an xz-compressed container of named sections;
// Load/LoadFile read it back with full validation. Float64 matrices round
// trip exactly.
package dataset
