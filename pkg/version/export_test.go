package version

// Apply exposes apply to tests.
var Apply = apply
