package azure

import (
	"context"
	"sync"

	"github.com/Microsoft/cognitive-services-speech-sdk-go/audio"
	"github.com/Microsoft/cognitive-services-speech-sdk-go/speech"
	"github.com/mynaparrot/plugnmeet-speech-bridge/pkg/engine"
	"github.com/sirupsen/logrus"
)

// azureRecognizer adapts speech.SpeechRecognizer to engine.Recognizer.
type azureRecognizer struct {
	log              *logrus.Entry
	speechConfig     *speech.SpeechConfig
	audioConfig      *audio.AudioConfig
	langConfig       *speech.AutoDetectSourceLanguageConfig
	reco             *speech.SpeechRecognizer

	mu            sync.RWMutex
	onRecognizing func(text string)
	onRecognized  func(result *engine.Result)
	onCanceled    func(errorDetails string)

	// inflight counts SDK operations we stopped waiting for but which still hold the recognizer
	inflight  sync.WaitGroup
	closeOnce sync.Once
}

func (r *azureRecognizer) OnRecognizing(handler func(text string)) {
	r.mu.Lock()
	r.onRecognizing = handler
	r.mu.Unlock()
}

func (r *azureRecognizer) OnRecognized(handler func(result *engine.Result)) {
	r.mu.Lock()
	r.onRecognized = handler
	r.mu.Unlock()
}

func (r *azureRecognizer) OnCanceled(handler func(errorDetails string)) {
	r.mu.Lock()
	r.onCanceled = handler
	r.mu.Unlock()
}

// registerHandlers hooks the SDK events once; the actual handlers are looked up on every event.
func (r *azureRecognizer) registerHandlers() {
	r.reco.SessionStarted(func(e speech.SessionEventArgs) {
		defer e.Close()
		r.log.WithField("sessionId", e.SessionID).Debugln("azure recognition session started")
	})
	r.reco.SessionStopped(func(e speech.SessionEventArgs) {
		defer e.Close()
		r.log.WithField("sessionId", e.SessionID).Debugln("azure recognition session stopped")
	})

	r.reco.Recognizing(func(e speech.SpeechRecognitionEventArgs) {
		defer e.Close()
		r.mu.RLock()
		h := r.onRecognizing
		r.mu.RUnlock()
		if h != nil {
			h(e.Result.Text)
		}
	})

	r.reco.Recognized(func(e speech.SpeechRecognitionEventArgs) {
		defer e.Close()
		r.mu.RLock()
		h := r.onRecognized
		r.mu.RUnlock()
		if h != nil {
			h(toResult(&e.Result))
		}
	})

	r.reco.Canceled(func(e speech.SpeechRecognitionCanceledEventArgs) {
		defer e.Close()
		r.mu.RLock()
		h := r.onCanceled
		r.mu.RUnlock()
		if h != nil {
			h(e.ErrorDetails)
		}
	})
}

func (r *azureRecognizer) RecognizeOnce(ctx context.Context) (*engine.Result, error) {
	task := r.reco.RecognizeOnceAsync()

	select {
	case outcome := <-task:
		defer outcome.Close()
		if outcome.Error != nil {
			return nil, outcome.Error
		}
		return toResult(outcome.Result), nil
	case <-ctx.Done():
		// the SDK can't interrupt a running recognition; let it finish in the background
		r.inflight.Add(1)
		go func() {
			defer r.inflight.Done()
			outcome := <-task
			outcome.Close()
		}()
		return nil, ctx.Err()
	}
}

func (r *azureRecognizer) StartContinuous(ctx context.Context) error {
	return r.await(ctx, r.reco.StartContinuousRecognitionAsync())
}

func (r *azureRecognizer) StopContinuous(ctx context.Context) error {
	return r.await(ctx, r.reco.StopContinuousRecognitionAsync())
}

func (r *azureRecognizer) await(ctx context.Context, task chan error) error {
	select {
	case err := <-task:
		return err
	case <-ctx.Done():
		r.inflight.Add(1)
		go func() {
			defer r.inflight.Done()
			if err := <-task; err != nil {
				r.log.WithError(err).Warnln("azure operation finished with error after caller gave up")
			}
		}()
		return ctx.Err()
	}
}

// Close releases native resources once every abandoned SDK operation finished.
func (r *azureRecognizer) Close() {
	r.closeOnce.Do(func() {
		go func() {
			r.inflight.Wait()
			r.release()
		}()
	})
}

func (r *azureRecognizer) release() {
	if r.reco != nil {
		r.reco.Close()
	}
	if r.langConfig != nil {
		r.langConfig.Close()
	}
	if r.audioConfig != nil {
		r.audioConfig.Close()
	}
	if r.speechConfig != nil {
		r.speechConfig.Close()
	}
}
