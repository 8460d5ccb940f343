package api

// CurrentUserForTest exposes currentUser to the external test package.
var CurrentUserForTest = currentUser
