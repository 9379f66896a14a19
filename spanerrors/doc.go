/*
Error model for view model serialization and the default API errors.

Every service built on spanviews reports failures through the same small set of error
types so clients can tell a missing entity from a misconfigured view model without
parsing messages.

This package defines two main objects for handing errors:

• ErrorType defines a TYPE of error, with a unique name, API code and HTTP status.

• Error is an instance of an error which carries an ErrorType, a message, a uuid and the
source error that caused it.

Default ErrorType Variables

Pointers to the default ErrorType definitions live in this package. NotFoundError,
ViewModelNotFoundError and FormatError are the ones raised by the serialization core.
Use xerrors.Is(err, spanerrors.NotFoundError) to test an error chain against a type.
*/
package spanerrors
