package utils

//DefaultListLimit is the number of reports returned by the history listing when no limit is given
const DefaultListLimit = 20

//MaxListLimit caps the limit a client may ask the history listing for
const MaxListLimit = 500

//UploadPattern is the temp file name pattern of spooled uploads
const UploadPattern = "upload-*.mp4"
