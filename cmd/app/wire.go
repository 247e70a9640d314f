//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/video-summarizer/internal/bootstrap"
	"github.com/yanqian/video-summarizer/internal/domain/account"
	"github.com/yanqian/video-summarizer/internal/domain/credits"
	"github.com/yanqian/video-summarizer/internal/domain/pipeline"
	"github.com/yanqian/video-summarizer/internal/domain/summarizer"
	"github.com/yanqian/video-summarizer/internal/domain/transcript"
	"github.com/yanqian/video-summarizer/internal/infra/config"
	"github.com/yanqian/video-summarizer/internal/infra/llm/chatgpt"
	"github.com/yanqian/video-summarizer/internal/infra/llm/tokens"
	"github.com/yanqian/video-summarizer/internal/infra/strapi"
	"github.com/yanqian/video-summarizer/internal/infra/youtube"
	httpiface "github.com/yanqian/video-summarizer/internal/interface/http"
	"github.com/yanqian/video-summarizer/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideSummaryConfig,
		provideChatGPTClient,
		provideTranscriptFetcher,
		provideCMSClient,
		provideResolver,
		provideRunRecorder,
		provideTranscriptArchive,
		provideRateLimitStore,
		tokens.NewCounter,
		account.NewContextTokenSource,
		credits.NewGate,
		summarizer.NewService,
		pipeline.NewService,
		wire.Bind(new(summarizer.ChatClient), new(*chatgpt.Client)),
		wire.Bind(new(summarizer.TokenCounter), new(*tokens.Counter)),
		wire.Bind(new(account.TokenSource), new(*account.ContextTokenSource)),
		wire.Bind(new(transcript.Fetcher), new(*youtube.Fetcher)),
		wire.Bind(new(pipeline.SummaryStore), new(*strapi.Client)),
		wire.Bind(new(pipeline.Gate), new(*credits.Gate)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
