package constants

// Software metadata served by the health endpoint and the CLI.
const (
	SoftwareName        = "inkwell"
	SoftwareDescription = "Permanent, optionally encrypted messages carried in transaction calldata."
)
