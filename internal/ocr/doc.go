// Package ocr detects text in camera frames using Tesseract.
//
// This package wraps the Tesseract OCR engine (via gosseract/v2). Tesseract
// yields one (region, text, confidence) detection per recognized word,
// which is exactly what the bold text pipeline consumes.
//
// # Prerequisites
//
// Tesseract must be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr libtesseract-dev
//   - macOS: brew install tesseract
//   - Windows: Download from https://github.com/UB-Mannheim/tesseract/wiki
//
// Language data files are required for each language:
//   - Ubuntu/Debian: apt-get install tesseract-ocr-eng (for English)
//   - Other languages: tesseract-ocr-<lang> packages
//
// A non-standard traineddata location can be set with Options.TessdataPrefix.
//
// # Preprocessing
//
// Camera frames are often low contrast and small. Preprocess can convert
// to grayscale, raise contrast and sharpen (bild), then upscale
// (disintegration/imaging) before recognition. Detected regions are mapped
// back to the original frame's coordinates.
//
// # Regions
//
// Tesseract reports axis-aligned boxes. Each is turned into a four-point
// region ordered top-left, top-right, bottom-right, bottom-left.
//
// # Error Handling
//
// Detect returns errors for:
//   - Unsupported language codes or missing traineddata
//   - Tesseract initialization failures
//   - Frame encoding failures
package ocr
