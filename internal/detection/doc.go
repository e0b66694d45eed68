// Package detection turns the output of an object detector into furniture
// detections.
//
// The detector itself is an external collaborator behind the Detector
// interface. Backends live in subpackages:
//
//   - dnn: YOLOv8 ONNX model through OpenCV's DNN module (build tag "gocv")
//   - rekognition: AWS Rekognition DetectLabels
//   - remote: an HTTP inference service
//   - static: fixed detections, for tests and demos
//
// # Adapter
//
// Adapter.DetectFurniture calls the detector once per image and:
//
//  1. Drops every detection whose class is not in the vocabulary whitelist.
//     This is not an error.
//  2. Resolves the class to its canonical label, so aliases such as "sofa"
//     and "couch" become the same label.
//  3. Clamps the bounding box to the image. Inverted boxes and boxes that
//     lie entirely outside the image are malformed: dropped with a warning,
//     or rejected with ErrMalformedDetection in strict mode.
//  4. Computes the center by floor division of (x1+x2) and (y1+y2) by 2.
//
// # Coordinate System
//
// Boxes are (X1,Y1)-(X2,Y2) in the pixel space of the image they were
// detected in. Origin at the top-left corner, X grows rightward and Y grows
// downward.
//
// # Errors
//
// Any failure of the detector, including a context deadline, is returned as
// a *DetectionFailure which matches ErrDetectionFailure with errors.Is. The
// adapter never retries.
package detection
