package authsdk

import "encoding/json"

// MessageResponse is the body of error responses and of calls that only
// acknowledge.
type MessageResponse struct {
	Message string `json:"message"`
}

// LoginRequest is the credential step. EmployeeID is optional and only sent
// when the login screen was opened for a specific subject.
type LoginRequest struct {
	MobileNumber string `json:"mobileNumber"`
	Password     string `json:"password"`
	EmployeeID   string `json:"employeeId,omitempty"`
}

// LoginResponse carries the challenge token and the subject it was issued
// for. The backend has used both {token, employeeId} and
// {challengeToken, subjectId}; either naming decodes.
type LoginResponse struct {
	ChallengeToken string `json:"challengeToken"`
	SubjectID      string `json:"subjectId"`
}

// UnmarshalJSON accepts both field namings, preferring the explicit ones.
func (r *LoginResponse) UnmarshalJSON(b []byte) error {
	var raw struct {
		ChallengeToken string `json:"challengeToken"`
		Token          string `json:"token"`
		SubjectID      string `json:"subjectId"`
		EmployeeID     string `json:"employeeId"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	r.ChallengeToken = raw.ChallengeToken
	if r.ChallengeToken == "" {
		r.ChallengeToken = raw.Token
	}
	r.SubjectID = raw.SubjectID
	if r.SubjectID == "" {
		r.SubjectID = raw.EmployeeID
	}
	return nil
}

// VerifyResponse is returned once the one-time code is accepted.
type VerifyResponse struct {
	Token        string `json:"token"`
	Role         string `json:"role"`
	EmployeeID   string `json:"employeeId"`
	DisplayName  string `json:"displayName,omitempty"`
	AdminID      string `json:"adminId,omitempty"`
	SuperAdminID string `json:"superAdminId,omitempty"`
	FirstLogin   bool   `json:"firstLogin,omitempty"`
}

// SetPasswordRequest sets the password of an employee after first login.
type SetPasswordRequest struct {
	EmpID    string `json:"empId"`
	Password string `json:"password"`
}

// HealthResponse is returned by the liveness endpoint.
type HealthResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime,omitempty"`
	Version string `json:"version,omitempty"`
}
