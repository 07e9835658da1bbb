// Package section is the single source of truth for packet content sections.
//
// Every part of the pipeline that names a section (inference payloads, the
// checklist codec, the compiler) must go through this package. Adding a new
// section here is the only change needed for it to survive a checklist
// round trip and count toward the conformance level.
package section

// Name identifies one content section of a specification packet.
type Name string

const (
	Purpose            Name = "purpose"
	InteractionFlow    Name = "interaction_flow"
	DataContracts      Name = "data_contracts"
	InterfaceContracts Name = "interface_contracts"
	Permissions        Name = "permissions"
	FailureModes       Name = "failure_modes"
	AuditEvents        Name = "audit_events"
	NonFunctional      Name = "non_functional"
	AcceptanceTests    Name = "acceptance_tests"
)

// Order lists all sections in canonical document order. Serialization and
// deserialization both iterate this slice, never a hand-maintained copy.
var Order = []Name{
	Purpose,
	InteractionFlow,
	DataContracts,
	InterfaceContracts,
	Permissions,
	FailureModes,
	AuditEvents,
	NonFunctional,
	AcceptanceTests,
}

// Required sections must be present in every compiled packet. The compiler
// fills a marked placeholder when no confirmed block supplied one.
var Required = []Name{Purpose, InteractionFlow, DataContracts}

// Conformance tiers. A packet is level 3 if any top-tier section is present,
// else level 2 if any mid-tier section is present, else level 1.
var (
	MidTier = []Name{InterfaceContracts, Permissions, FailureModes}
	TopTier = []Name{AuditEvents, NonFunctional, AcceptanceTests}
)

// Known reports whether n names a defined section.
func Known(n Name) bool {
	for _, s := range Order {
		if s == n {
			return true
		}
	}
	return false
}

// IsRequired reports whether n is structurally mandatory.
func IsRequired(n Name) bool {
	for _, s := range Required {
		if s == n {
			return true
		}
	}
	return false
}

// Title returns the human-readable heading for a section.
func Title(n Name) string {
	switch n {
	case Purpose:
		return "Purpose"
	case InteractionFlow:
		return "Interaction Flow"
	case DataContracts:
		return "Data Contracts"
	case InterfaceContracts:
		return "Interface Contracts"
	case Permissions:
		return "Permissions"
	case FailureModes:
		return "Failure Modes"
	case AuditEvents:
		return "Audit Events"
	case NonFunctional:
		return "Non-Functional Requirements"
	case AcceptanceTests:
		return "Acceptance Tests"
	default:
		return string(n)
	}
}
