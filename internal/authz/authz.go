// Package authz decides, for an authenticated caller and a requested
// operation, whether the operation may proceed and how far it may reach.
// Decisions are pure: no storage access, no side effects. Callers still have
// to verify that referenced employees exist before acting on an allowed
// create or update.
package authz

// Caller is the identity making a request. EmployeeID is the linked employee
// record, nil when the account has none.
type Caller struct {
	Role       string
	EmployeeID *int64
}

type Effect int

const (
	// Deny blocks the operation; Reason says how to report it.
	Deny Effect = iota
	// Full grants the operation over every row and every field.
	Full
	// Scoped grants the operation over rows owned by Scope only. A nil
	// Scope means the visible set is empty.
	Scoped
	// FieldRestricted grants an update limited to the named fields.
	FieldRestricted
)

type Reason string

const (
	// ReasonForbidden reports as 403: wrong role or foreign ownership.
	ReasonForbidden Reason = "forbidden"
	// ReasonNotLinked reports as 400: the caller has no linked employee
	// record but the operation requires one.
	ReasonNotLinked Reason = "not_linked"
)

type Decision struct {
	Effect Effect
	Scope  *int64
	Fields []string
	Reason Reason
}

func (d Decision) Allowed() bool {
	return d.Effect != Deny
}

func full() Decision                  { return Decision{Effect: Full} }
func scoped(id *int64) Decision       { return Decision{Effect: Scoped, Scope: id} }
func restricted(f []string) Decision  { return Decision{Effect: FieldRestricted, Fields: f} }
func deny(reason Reason) Decision     { return Decision{Effect: Deny, Reason: reason} }

// ResolveList decides visibility for a whole-collection read. Employee-role
// callers see only rows owned by their linked employee; with no link the
// result set is empty rather than an error.
func ResolveList(c Caller, _ Resource) Decision {
	switch {
	case isElevated(c.Role):
		return full()
	case c.Role == RoleEmployee:
		return scoped(c.EmployeeID)
	default:
		return deny(ReasonForbidden)
	}
}

// ResolveRead decides a read-by-id against the target's owning employee.
// For the employee resource ownerID is the record's own id.
func ResolveRead(c Caller, _ Resource, ownerID int64) Decision {
	switch {
	case isElevated(c.Role):
		return full()
	case c.Role == RoleEmployee:
		if c.EmployeeID != nil && *c.EmployeeID == ownerID {
			return scoped(c.EmployeeID)
		}
		return deny(ReasonForbidden)
	default:
		return deny(ReasonForbidden)
	}
}

// ResolveCreate decides a create whose payload claims ownerID as the owning
// employee. Employee-role callers may only create rows for themselves, and
// may never create employee records.
func ResolveCreate(c Caller, resource Resource, ownerID int64) Decision {
	switch {
	case isElevated(c.Role):
		return full()
	case c.Role == RoleEmployee:
		if resource == Employees {
			return deny(ReasonForbidden)
		}
		if c.EmployeeID == nil {
			return deny(ReasonNotLinked)
		}
		if *c.EmployeeID != ownerID {
			return deny(ReasonForbidden)
		}
		return scoped(c.EmployeeID)
	default:
		return deny(ReasonForbidden)
	}
}

// ResolveUpdate decides a mutation of the row owned by ownerID. Employee-role
// callers get a field-restricted grant on their own goals and reviews and
// nothing else; admin and manager may change any field, including moving the
// row to another employee.
func ResolveUpdate(c Caller, resource Resource, ownerID int64) Decision {
	switch {
	case isElevated(c.Role):
		return full()
	case c.Role == RoleEmployee:
		if c.EmployeeID == nil || *c.EmployeeID != ownerID {
			return deny(ReasonForbidden)
		}
		switch resource {
		case Goals:
			return restricted(EmployeeGoalFields)
		case Reviews:
			return restricted(EmployeeReviewFields)
		default:
			return deny(ReasonForbidden)
		}
	default:
		return deny(ReasonForbidden)
	}
}

// ResolveDelete: admin and manager only, for every resource.
func ResolveDelete(c Caller, _ Resource) Decision {
	if isElevated(c.Role) {
		return full()
	}
	return deny(ReasonForbidden)
}
