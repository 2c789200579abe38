/*
Package authsdk is the client SDK for the LeaveDesk authentication backend.

# Overview

Signing in is a two step exchange. Login trades a mobile number and password
for a short lived challenge token; VerifyOTP trades that challenge token and
the one-time code for a session token and the caller's identity:

	client := authsdk.NewClient("http://localhost:9090")

	challenge, err := client.Login(ctx, authsdk.LoginRequest{
		MobileNumber: "9876543210",
		Password:     "secret",
	})

	verified, err := client.VerifyOTP(ctx, challenge.ChallengeToken, "123456", challenge.SubjectID)

The challenge token is only ever sent as a bearer credential to the OTP
endpoints; it is not a session token and must not be stored as one.

# Errors

Any non-2xx response is returned as *APIError carrying the status code and
the server's message. Use APIError.Expired to tell an expired challenge
apart from a wrong code:

	var apiErr *authsdk.APIError
	if errors.As(err, &apiErr) && apiErr.Expired() {
		// start over from Login
	}

Transport failures (connection refused, timeouts, undecodable bodies) are
plain wrapped errors.

# Endpoints

Paths default to the ones used by the LeaveDesk backend and can be replaced
per client through Client.Endpoints.
*/
package authsdk
