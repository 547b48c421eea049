// Package detect turns raw neural-detector output into clean bounding boxes.
//
// The inference engine itself is an external collaborator: this package
// consumes its raw per-box rows ([cx, cy, w, h, objConf, classConf...] in
// model-input-normalized units), maps them back through the letterbox
// transform into original-image pixel coordinates, gates them on a combined
// confidence score, and merges near-duplicate boxes of the same class.
//
// Decode and Cluster are pure functions over their inputs; they hold no
// state and may run concurrently across independent frames.
package detect
