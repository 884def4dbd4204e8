package rest

/**
 * Environment variables
 */

// REST server env names
const RestHostEnvName = "BATCHSIGHT_HOST"
const RestPortEnvName = "BATCHSIGHT_PORT"

// default values if env variables not set
const DefaultRestHost = "localhost"
const DefaultRestPort = "8080"
