// Package consts defines application-wide constants.
package consts

import "time"

const (
	// DefaultHandlerTimeout is the default timeout for HTTP handlers.
	DefaultHandlerTimeout = 30 * time.Second
	// DefaultJobTimeout is the default timeout for job processing.
	DefaultJobTimeout = 30 * time.Minute
	// DefaultJobWorkers is the default number of workers for job processing.
	DefaultJobWorkers = 2
	// DefaultQueueSize is the default size of the job queue.
	DefaultQueueSize = 50
	// DefaultJobTTL is the default time-to-live for stored jobs and files.
	DefaultJobTTL = 7 * 24 * time.Hour
	// DefaultSimulateTime is the default time to simulate processing in the mock downloader.
	DefaultSimulateTime = 1 * time.Second
)

// Video quality qn values accepted by the play URL API.
const (
	// Qn8K is 8K ultra high definition.
	Qn8K = 127
	// Qn4K is 4K ultra high definition.
	Qn4K = 120
	// Qn1080P60 is 1080P at 60fps.
	Qn1080P60 = 116
	// Qn1080P is 1080P, the default.
	Qn1080P = 80
	// Qn720P is 720P.
	Qn720P = 64
	// Qn480P is 480P.
	Qn480P = 32
	// Qn360P is 360P.
	Qn360P = 16
)

// QR login poll codes returned by the passport API.
const (
	// QRCodeSuccess means the login succeeded and session cookies were issued.
	QRCodeSuccess = 0
	// QRCodeWaitingScan means the code has not been scanned yet.
	QRCodeWaitingScan = 86101
	// QRCodeScanned means the code was scanned but not yet confirmed on the phone.
	QRCodeScanned = 86090
	// QRCodeExpired means the code expired and must be regenerated.
	QRCodeExpired = 86038
)

// HTTP response messages.
const (
	// RespInvalidRequestBody is returned when the request body is invalid.
	RespInvalidRequestBody = "invalid request body"
	// RespQueryParamMissing is returned when a required query parameter is missing or invalid.
	RespQueryParamMissing = "query param missing or invalid"
	// RespUnprocessableEntity is returned when the request cannot be processed.
	RespUnprocessableEntity = "unprocessable entity"
	// RespJobEnqueued is returned when a job is successfully enqueued.
	RespJobEnqueued = "job enqueued"
	// RespJobEnqueueFail is returned when a job cannot be enqueued.
	RespJobEnqueueFail = "job enqueue failed"
	// RespGetJobsFail is returned when fetching all jobs fails.
	RespGetJobsFail = "get all jobs failed"
	// RespNoJobs is returned when there are no jobs available.
	RespNoJobs = "no jobs"
	// RespJobRetrieved is returned when a job is successfully retrieved.
	RespJobRetrieved = "job retrieved"
	// RespJobsRetrieved is returned when jobs are successfully retrieved.
	RespJobsRetrieved = "jobs retrieved"
	// RespJobNotFound is returned when a job is not found.
	RespJobNotFound = "job not found"
	// RespJobAlreadyExists is returned when a job already exists.
	RespJobAlreadyExists = "job already exists"
	// RespJobCancelled is returned when a job is cancelled.
	RespJobCancelled = "job cancelled"
	// RespVideoResolved is returned when video metadata is resolved.
	RespVideoResolved = "video resolved"
	// RespVideoResolveFail is returned when video metadata cannot be resolved.
	RespVideoResolveFail = "video resolve failed"
	// RespQRGenerated is returned when a login QR code is generated.
	RespQRGenerated = "qr code generated"
	// RespQRGenerateFail is returned when a login QR code cannot be generated.
	RespQRGenerateFail = "qr code generate failed"
	// RespQRPollFail is returned when polling a login QR code fails.
	RespQRPollFail = "qr poll failed"
	// RespQRStatus is returned with the current login state of a QR session.
	RespQRStatus = "qr status retrieved"
	// RespQRNotFound is returned when a QR session key is unknown.
	RespQRNotFound = "qr session not found"
	// RespQRExpired is returned when a QR session has expired.
	RespQRExpired = "qr session expired"
	// RespLoggedOut is returned after a successful logout.
	RespLoggedOut = "logged out"
	// RespNotLoggedIn is returned when no authenticated session exists.
	RespNotLoggedIn = "not logged in"
	// RespUserRetrieved is returned when the current user is retrieved.
	RespUserRetrieved = "user retrieved"
)

// Downloader identifiers.
const (
	// DownloaderNative is the native downloader identifier.
	DownloaderNative = "native"
	// DownloaderMock is the mock downloader identifier for testing.
	DownloaderMock = "mock"
)
