// Package cube reads, writes, and characterizes 3D LUTs in the .cube format.
//
// LUT loading tolerates comments, blank lines, and a missing LUT_3D_SIZE
// header (the size is then inferred from the row count). Analyze compares a
// LUT against the identity transform and summarizes per-channel shift,
// contrast, saturation change, color-temperature tendency, shadow lift, and
// highlight rolloff so looks can be compared without opening the host.
package cube
