// Package golem is a dataset container and cross-validation toolkit for Go.
//
// A Dataset bundles a feature matrix, a one-of-N label matrix, per-instance
// ids and metadata (feature and class labels, a multi-dimensional feature
// shape, free-form extra values). Datasets are immutable: indexing,
// concatenation and class extraction return new datasets, and the metadata
// travels with the rows.
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/wmvanvliet/golem/core/model"
//	    "github.com/wmvanvliet/golem/cv"
//	    "github.com/wmvanvliet/golem/data"
//	    "github.com/wmvanvliet/golem/linear"
//	    "github.com/wmvanvliet/golem/preprocessing"
//	)
//
//	func main() {
//	    d, err := data.GaussianDataset([]int{30, 20, 10})
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    folds, err := cv.StratifiedSplit(d, 10)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    outs, err := cv.CrossValidate(folds, func() model.Node {
//	        return model.NewChain(preprocessing.NewZScore(), linear.NewLSReg())
//	    })
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(outs[0])
//	}
//
// # Packages
//
//   - core/dataset: the Dataset container, selectors, equality, fingerprints
//     and the GOLDAT file format
//   - core/model: the Node contract (Train/Apply), chains and node persistence
//   - cv: stratified and sequential splits, train/test pairs, CrossValidate
//   - data: artificial Gaussian datasets
//   - preprocessing: one-of-N encoding, hard max, z-score and min-max nodes
//   - linear: least-squares classifier node
//   - metrics: ROC, AUC, confusion matrices, mutual information, tables
//   - plots: scatter and ROC plots
//   - pkg/errors, pkg/log: error taxonomy and structured logging
//
// The golem command (cmd/golem) exposes generation, inspection, splitting
// and cross-validation of dataset files.
package golem
