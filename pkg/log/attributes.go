// Package log defines standard attribute keys for dataset operations.
//
// Keys follow a hierarchical naming convention ("data.samples",
// "cv.folds") so records from construction, partitioning and persistence
// can be filtered together.

package log

// Operation context.
const (
	// ModelNameKey identifies the node type consuming a dataset.
	// Examples: "ZScore"
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is performing the operation.
	// Examples: "dataset", "cv", "cli"
	ComponentKey = "ml.component"

	// PhaseKey indicates the phase of an experiment.
	PhaseKey = "ml.phase"
)

// Data shape.
const (
	// SamplesKey indicates the number of instances (rows) in a dataset.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of features (columns of xs).
	FeaturesKey = "data.features"

	// ClassesKey indicates the number of classes (columns of ys).
	ClassesKey = "data.classes"

	// ClassCountsKey records the per-class instance counts.
	ClassCountsKey = "data.class_counts"

	// FingerprintKey records the hex fingerprint of a dataset.
	FingerprintKey = "data.fingerprint"
)

// Partitioning.
const (
	// FoldsKey records the number of folds requested from a splitter.
	FoldsKey = "cv.folds"

	// FoldKey records the index of the fold being processed.
	FoldKey = "cv.fold"

	// StrategyKey records the partitioning strategy.
	// Standard values: "stratified", "sequential"
	StrategyKey = "cv.strategy"

	// TrainSamplesKey and TestSamplesKey record the sizes of a
	// cross-validation pair.
	TrainSamplesKey = "cv.train_samples"
	TestSamplesKey  = "cv.test_samples"
)

// Persistence and performance.
const (
	// PathKey records a file path used for save/load.
	PathKey = "io.path"

	// DataSizeKey indicates the size of persisted data in bytes.
	DataSizeKey = "io.size_bytes"

	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"
)

// Error context.
const (
	// ErrorCodeKey provides a structured error code for programmatic handling.
	ErrorCodeKey = "error.code"

	// ErrorTypeKey categorizes the type of error encountered.
	ErrorTypeKey = "error.type"

	// StacktraceKey contains stack trace information for debugging.
	StacktraceKey = "error.stacktrace"

	// SuggestionKey provides helpful suggestions for resolving issues.
	SuggestionKey = "error.suggestion"
)

// Standard attribute values.
const (
	OperationNew             = "new"
	OperationConcat          = "concat"
	OperationSave            = "save"
	OperationLoad            = "load"
	OperationStratifiedSplit = "stratified_split"
	OperationSequentialSplit = "sequential_split"
	OperationCrossValidate   = "cross_validate"
	OperationTrain           = "train"
	OperationApply           = "apply"

	PhaseTraining = "training"
	PhaseTesting  = "testing"

	ErrorDimensionMismatch = "DIMENSION_MISMATCH"
	ErrorIntegrity         = "INTEGRITY"
	ErrorIO                = "IO"
)
