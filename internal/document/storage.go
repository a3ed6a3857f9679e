package document

// StoragePoint is the persisted, scale-independent representation of an
// annotation position: a PercentagePoint for flow documents or a
// PixelPoint for raster documents.
type StoragePoint interface {
	storagePoint()
}

func (PercentagePoint) storagePoint() {}
func (PixelPoint) storagePoint()      {}

// StorageFor extracts the annotation's storage point, or nil when the
// shape is missing.
func (a *Annotation) StorageFor() StoragePoint {
	switch {
	case a.Percent != nil:
		return *a.Percent
	case a.Pixel != nil:
		return *a.Pixel
	default:
		return nil
	}
}
