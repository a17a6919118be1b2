// Package containerizer is the thin adapter between the orchestrator and the
// container runtime.
//
// The orchestrator never talks to docker directly: builds, group lifecycle,
// worker spawning, and process queries all go through the Runtime interface,
// and the retry/fallback policy upstream depends only on the errors returned
// here. DockerRuntime is the production implementation, shelling out to the
// docker CLI (and `docker compose` for group operations) and folding captured
// stderr into returned errors so failures carry their diagnostic.
package containerizer
