package docs

var topics = []Topic{
	{
		Name:    "quickstart",
		Title:   "Quick Start",
		Summary: "Getting started with plume",
		Content: topicQuickstart,
	},
	{
		Name:    "config",
		Title:   "Configuration Reference",
		Summary: "Config file schema, fields, and defaults",
		Content: topicConfig,
	},
	{
		Name:    "tools",
		Title:   "Built-in Tools",
		Summary: "Story writers, image and speech producers, video composer",
		Content: topicTools,
	},
	{
		Name:    "pipeline",
		Title:   "Execution Model",
		Summary: "Stage order, modality workers, failure handling, resuming",
		Content: topicPipeline,
	},
	{
		Name:    "credentials",
		Title:   "Backend Credentials",
		Summary: "Environment variables the backends read",
		Content: topicCredentials,
	},
	{
		Name:    "outputs",
		Title:   "Story Directory",
		Summary: "Structure of the story directory and what gets saved",
		Content: topicOutputs,
	},
}

const topicQuickstart = `Quick Start
===========

1. Initialize a project:

    cd your-project
    plume init

   This creates plume.yaml and a sample source.txt.

2. Edit plume.yaml: name your story, pick the story writer, and
   configure the image, speech, and video tools.

3. Replace source.txt with your source material. Plain prose works
   best; a few paragraphs about a topic or a dataset summary are enough.

4. Preview the stage plan without executing:

    plume run source.txt --dry-run

5. Run for real:

    plume run source.txt

6. Check progress:

    plume status

CLI Flags
---------

  plume run <source-file>            Run the full pipeline
  plume run <source-file> --dry-run  Preview the stage plan
  plume run --config <path>          Use a config other than plume.yaml
  plume status                       Show run status and outputs
  plume doctor                       Diagnose a failed run via the LLM
  plume init                         Scaffold plume.yaml and source.txt
  plume docs                         List documentation topics`

const topicConfig = `Configuration Reference
=======================

plume.yaml drives one pipeline invocation.

Top-level fields
----------------

  name             string    Required. Story name, shown in status.
  story_dir        string    Output directory. Default: "story".
  worker_timeout   int       Minutes per modality worker. Default: 10.

  enable_story     bool      Default: true.
  enable_image     bool      Default: true.
  enable_speech    bool      Default: true.
  enable_video     bool      Default: true.

Every toggle defaults to enabled when absent; write an explicit
"false" to turn a stage or modality off.

Tool blocks
-----------

Each stage names a registered tool and passes it an opaque params
map. The pipeline core never interprets params; the tool does.

  story_writer:
    tool: qa_outline_story_writer
    params:
      llm: qwen
      model: qwen-plus
      temperature: 1.0
      num_outline: 4
      max_retries: 3
      chapter_retries: 3

  image_generation:
    tool: wanx_image
    params:
      model: wanx-v1
      size: "1024*1024"
      style: "<watercolor>"

  speech_generation:
    tool: cosyvoice_tts
    params:
      voice: xiaoyun
      sample_rate: 16000

  video_compose:
    tool: slideshow_video_compose
    params:
      page_seconds: 5

A tool block is only required while its stage or modality is enabled.`

const topicTools = `Built-in Tools
==============

Tools are resolved by name at run time. Unknown names fail the run
before any work starts.

Story writers
-------------

  qa_outline_story_writer
      Summarizes the source material, plans a chapter outline, then
      expands chapters strictly in order so later pages stay coherent
      with earlier ones. Every step has a deterministic fallback; a
      chapter that keeps failing yields placeholder pages instead of
      aborting the story.

  data_driven_story_writer
      Single-shot writer for short material. Produces 5-8 pages
      directly, with a constant fallback page set.

Modality producers
------------------

  wanx_image
      Derives one illustration prompt per page, then renders it with
      the DashScope image-synthesis API. Writes p1.png, p2.png, ...
      into the image/ subdirectory. The derived prompts are returned
      to the pipeline and recorded in the manifest.

  cosyvoice_tts
      Narrates each page over the NLS speech-synthesis WebSocket
      protocol. Writes p1.mp3, p2.mp3, ... into the speech/
      subdirectory. Supported voices: xiaoyun, xiaogang, xiaowei,
      xiaoxiao (unknown voices fall back to xiaoyun).

Video composer
--------------

  slideshow_video_compose
      Stitches the per-page images and narration into story.mp4 with
      ffmpeg. Pages without narration get a fixed duration
      (page_seconds); narrated pages last as long as their audio.
      Requires ffmpeg on PATH.`

const topicPipeline = `Execution Model
===============

A run has three stages, always in this order:

  1. story    Write the ordered page sequence from the source.
  2. assets   One worker per enabled modality, all against the same
              pages. The script manifest is written when all workers
              have finished.
  3. video    Compose the final video from the assets.

Stage flow is strictly forward; no stage feeds back into an earlier
one.

Modality workers
----------------

Workers run concurrently and isolated. Each gets its own parameter
copy and a deadline of worker_timeout minutes. A worker that errors,
panics, or times out records a failed entry in the result table and
is reported with a "worker-failed:" line; its siblings finish
normally and the run continues. The manifest simply carries no data
for the failed modality.

Failure handling inside the story stage is different: generation
failures there degrade to deterministic fallback content (reported
with "fallback:" lines) rather than failing anything. Pages built
from fallback content are marked in the manifest.

Interrupting and resuming
-------------------------

Ctrl-C marks the run interrupted in state.json. Runs restart from the
beginning; completed asset files on disk are simply overwritten.
After a failed run, 'plume doctor' feeds the run state and outputs to
the configured LLM for a diagnosis.`

const topicCredentials = `Backend Credentials
===================

Credentials are read from the environment by the backend tools at
construction time. The pipeline core never inspects them. A local
.env file is loaded automatically if present.

  DASHSCOPE_API_KEY     qwen text generation and wanx_image
                        rendering. Can also be set per tool block as
                        params.api_key.

  ALIYUN_ACCESS_TOKEN   cosyvoice_tts gateway token.

  ALIYUN_APP_KEY        cosyvoice_tts application key. Can also be
                        set as params.app_key.

A tool whose credentials are missing fails construction with an error
naming the variables, before any worker starts.`

const topicOutputs = `Story Directory
===============

Everything a run produces lives under story_dir:

  script_data.json   The manifest: one row per page with the story
                     text, the image prompt (when the image modality
                     ran), and a fallback marker for placeholder
                     content. Written atomically; identical inputs
                     produce byte-identical files.

  image/p<N>.png     One rendered illustration per page.
  speech/p<N>.mp3    One narration clip per page.
  story.mp4          The composed video, when video is enabled.

  state.json         Run ID, stage index, status.
  timing.json        Per-stage start, end, and duration.

File numbering is 1-based and follows page order, so row N of the
manifest, image/p<N>.png, and speech/p<N>.mp3 always describe the
same page.`
