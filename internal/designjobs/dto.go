package designjobs

// AssignRequest is the JSON body for handing a job to a designer.
type AssignRequest struct {
	Designer string `json:"designer" validate:"required,min=1,max=100"`
}

// CompleteRequest is the JSON body for marking artwork as finished.
type CompleteRequest struct {
	ArtworkRef string `json:"artwork_ref" validate:"required,min=1,max=500"`
}
