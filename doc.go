/*
go-poseval provides keypoint decoding and evaluation scoring for animal
pose estimation models.  It converts the raw heatmap and location refinement
tensors produced by a trained network into discrete keypoint coordinates,
and scores predicted keypoints against ground truth annotations using RMSE
and the COCO style Object Keypoint Similarity (OKS) mAP/mAR metrics.

The library is pure computation with no model runtime attached.  Inference
outputs are supplied through the ModelOutput container and decoded with the
postprocess package, predicted individuals can be aligned to ground truth
annotations with the scoring and match packages, and final metrics are
produced by scoring.Scorer.

See example code and usage in the example subdirectory.
*/
package poseval
