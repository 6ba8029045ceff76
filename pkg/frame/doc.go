// Package frame provides Frame, the in-memory tabular buffer exchanged by
// every read and write in leapxfer.
//
// A Frame is an ordered list of named Series. Each Series holds values of a
// single core.Kind, with nil marking a null cell, and every Series in a
// Frame has the same length. Frames are treated as immutable by the
// adapters: projection and truncation return new frames sharing no slices
// with the original.
package frame
